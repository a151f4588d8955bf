package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is the persisted profile for an authenticated caller. AuthID is the
// subject of the verified bearer token; the auth provider itself owns the
// identity lifecycle.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthID     string         `gorm:"uniqueIndex;size:255;not null" json:"-"`
	Email      string         `gorm:"size:255" json:"email"`
	Name       string         `gorm:"size:255" json:"name"`
	Industry   string         `gorm:"size:255;index" json:"industry"`
	Experience string         `gorm:"size:255" json:"experience"`
	Skills     datatypes.JSON `json:"skills"`
	Bio        string         `json:"bio"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (User) TableName() string {
	return "app_user"
}

// IsOnboarded reports whether the user has completed onboarding, which in
// practice means an industry has been selected.
func (u *User) IsOnboarded() bool {
	return u.Industry != ""
}

// SkillList decodes the stored skills column. A missing or corrupt column
// decodes to an empty list rather than an error; skills are advisory data.
func (u *User) SkillList() []string {
	if len(u.Skills) == 0 {
		return nil
	}
	var skills []string
	if err := json.Unmarshal(u.Skills, &skills); err != nil {
		return nil
	}
	return skills
}

// EncodeSkills marshals a skill list into the JSON column type.
func EncodeSkills(skills []string) (datatypes.JSON, error) {
	if skills == nil {
		skills = []string{}
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
