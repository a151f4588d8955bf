package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// IndustryInsight is the persisted per-industry analysis record. The industry
// name is the unique key; Payload is stored as opaque JSON and only the
// generator cares about its internal shape.
type IndustryInsight struct {
	Industry    string         `gorm:"primaryKey;size:255" json:"industry"`
	Payload     datatypes.JSON `gorm:"not null" json:"payload"`
	LastUpdated time.Time      `gorm:"not null" json:"last_updated"`
	NextUpdate  time.Time      `gorm:"not null;index" json:"next_update"`
}

// TableName keeps the table name singular to match the rest of the schema.
func (IndustryInsight) TableName() string {
	return "industry_insight"
}

// DecodePayload unmarshals the stored payload back into its structured form.
func (i *IndustryInsight) DecodePayload() (*InsightPayload, error) {
	var payload InsightPayload
	if err := json.Unmarshal(i.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// InsightPayload is the structured market analysis produced by the LLM for a
// single industry.
type InsightPayload struct {
	SalaryRanges      []SalaryRange `json:"salary_ranges" validate:"required,min=1,dive"`
	GrowthRate        float64       `json:"growth_rate" validate:"gte=0"`
	DemandLevel       string        `json:"demand_level" validate:"required,oneof=High Medium Low"`
	TopSkills         []string      `json:"top_skills" validate:"required,min=1"`
	MarketOutlook     string        `json:"market_outlook" validate:"required,oneof=Positive Neutral Negative"`
	KeyTrends         []string      `json:"key_trends" validate:"required,min=1"`
	RecommendedSkills []string      `json:"recommended_skills"`
}

// SalaryRange describes compensation for one role within the industry.
type SalaryRange struct {
	Role     string  `json:"role" validate:"required"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

// Encode marshals the payload into the JSON column type used by the store.
func (p *InsightPayload) Encode() (datatypes.JSON, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
