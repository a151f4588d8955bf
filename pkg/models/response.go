package models

import "time"

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProfileResponse is returned by the profile endpoints. The insight row is
// included on updates so clients can render the dashboard without a second
// round trip.
type ProfileResponse struct {
	Success bool             `json:"success"`
	User    *User            `json:"user"`
	Insight *IndustryInsight `json:"insight,omitempty"`
}

// OnboardingStatusResponse reports whether the caller has picked an industry.
type OnboardingStatusResponse struct {
	IsOnboarded bool `json:"is_onboarded"`
}

// SweepResponse is returned by the scheduled-trigger endpoint.
type SweepResponse struct {
	Success   bool      `json:"success"`
	Total     int       `json:"total"`
	Refreshed int       `json:"refreshed"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}
