package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID for tracking
func GenerateRequestID() string {
	return uuid.New().String()
}

// NormalizeIndustry trims a free-text industry label and collapses
// internal whitespace so " Financial   Services " and "Financial
// Services" address the same row.
func NormalizeIndustry(industry string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(industry)), " ")
}

// IndustrySlug converts an industry label into an identifier safe for use in
// workflow IDs and log fields.
func IndustrySlug(industry string) string {
	slug := strings.ToLower(NormalizeIndustry(industry))
	return strings.ReplaceAll(slug, " ", "-")
}
