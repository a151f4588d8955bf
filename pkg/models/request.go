package models

// UpdateProfileRequest is the payload for the profile update endpoint. The
// industry selection is what triggers lazy insight creation.
type UpdateProfileRequest struct {
	Industry   string   `json:"industry" validate:"required,min=2,max=255"`
	Experience string   `json:"experience" validate:"max=255"`
	Bio        string   `json:"bio" validate:"max=4000"`
	Skills     []string `json:"skills" validate:"max=50,dive,min=1,max=100"`
}

// InsightEvent is the payload carried by the industry/generate.insights
// event from producer to runner.
type InsightEvent struct {
	Industry  string `json:"industry" validate:"required"`
	Timeframe string `json:"timeframe,omitempty"`
}
