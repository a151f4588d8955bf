package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"careerpilot-api/pkg/models"
	"careerpilot-api/pkg/utils"
)

// Store wraps database access for users and industry insights.
// All methods accept an optional transaction handle so callers can
// compose them inside WithTransaction.
type Store struct {
	db *gorm.DB
}

// New creates a Store backed by the given database handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// WithTransaction runs fn inside a single database transaction bounded
// by the given timeout. fn receives the deadline context so blocking
// work inside the transaction is cancelled when the budget runs out,
// and must use both the context and the transaction handle for every
// store call made inside it.
func (s *Store) WithTransaction(ctx context.Context, timeout time.Duration, fn func(txCtx context.Context, tx *gorm.DB) error) error {
	txCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		return fn(txCtx, tx)
	})
}

// GetInsight fetches the insight row for an industry.
// Returns (nil, nil) when no row exists.
func (s *Store) GetInsight(ctx context.Context, tx *gorm.DB, industry string) (*models.IndustryInsight, error) {
	var insight models.IndustryInsight
	err := s.conn(tx).WithContext(ctx).
		Where("industry = ?", industry).
		First(&insight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &insight, nil
}

// CreateInsight inserts a new insight row. A concurrent insert for the
// same industry surfaces as gorm.ErrDuplicatedKey.
func (s *Store) CreateInsight(ctx context.Context, tx *gorm.DB, insight *models.IndustryInsight) error {
	return s.conn(tx).WithContext(ctx).Create(insight).Error
}

// UpsertInsight writes an insight row, replacing payload and timestamps
// when the industry already exists.
func (s *Store) UpsertInsight(ctx context.Context, tx *gorm.DB, insight *models.IndustryInsight) error {
	return s.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "industry"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "last_updated", "next_update"}),
		}).
		Create(insight).Error
}

// ListIndustries returns every industry that has a stored insight row
func (s *Store) ListIndustries(ctx context.Context) ([]string, error) {
	var industries []string
	err := s.db.WithContext(ctx).
		Model(&models.IndustryInsight{}).
		Order("industry").
		Pluck("industry", &industries).Error
	if err != nil {
		return nil, err
	}
	return industries, nil
}

// ListInsights returns all stored insight rows
func (s *Store) ListInsights(ctx context.Context) ([]models.IndustryInsight, error) {
	var insights []models.IndustryInsight
	err := s.db.WithContext(ctx).
		Order("industry").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

// GetUserByAuthID fetches a user by their external auth identity
func (s *Store) GetUserByAuthID(ctx context.Context, tx *gorm.DB, authID string) (*models.User, error) {
	var user models.User
	err := s.conn(tx).WithContext(ctx).
		Where("auth_id = ?", authID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user row
func (s *Store) CreateUser(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return s.conn(tx).WithContext(ctx).Create(user).Error
}

// UpdateUserProfile updates the profile fields of an existing user
func (s *Store) UpdateUserProfile(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return s.conn(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"industry":   user.Industry,
			"experience": user.Experience,
			"bio":        user.Bio,
			"skills":     user.Skills,
			"updated_at": time.Now().UTC(),
		}).Error
}
