package insights

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careerpilot-api/internal/logging"
	"careerpilot-api/internal/store"
	"careerpilot-api/pkg/models"
	"careerpilot-api/pkg/utils"
)

// Service implements the industry insight lifecycle: lazy creation on
// first demand, profile updates that bind a user to an industry, and
// refreshes of existing rows.
type Service struct {
	store           *store.Store
	generator       Generator
	txTimeout       time.Duration
	refreshInterval time.Duration
	logger          logging.Logger
}

// NewService creates an insight service
func NewService(st *store.Store, gen Generator, txTimeout, refreshInterval time.Duration) *Service {
	return &Service{
		store:           st,
		generator:       gen,
		txTimeout:       txTimeout,
		refreshInterval: refreshInterval,
		logger:          logging.GetGlobalLogger(),
	}
}

// EnsureUser returns the user for the given auth identity, creating a
// row on first sight.
func (s *Service) EnsureUser(ctx context.Context, authID, email, name string) (*models.User, error) {
	user, err := s.store.GetUserByAuthID(ctx, nil, authID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, utils.ErrUserNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:     uuid.New(),
		AuthID: authID,
		Email:  email,
		Name:   name,
	}
	if err := s.store.CreateUser(ctx, nil, user); err != nil {
		// Lost a race with a concurrent first request for the same identity
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.store.GetUserByAuthID(ctx, nil, authID)
		}
		return nil, err
	}
	return user, nil
}

// GetInsightForUser returns the stored insight for the user's industry,
// generating and persisting one if the industry has never been seen.
// Users who have not picked an industry get a nil insight.
func (s *Service) GetInsightForUser(ctx context.Context, authID string) (*models.User, *models.IndustryInsight, error) {
	user, err := s.store.GetUserByAuthID(ctx, nil, authID)
	if err != nil {
		return nil, nil, err
	}

	if !user.IsOnboarded() {
		return user, nil, nil
	}

	insight, err := s.store.GetInsight(ctx, nil, user.Industry)
	if err != nil {
		return nil, nil, err
	}
	if insight != nil {
		return user, insight, nil
	}

	insight, err = s.ensureInsight(ctx, user.Industry)
	if err != nil {
		return nil, nil, err
	}
	return user, insight, nil
}

// UpdateProfile updates the user's profile and guarantees an insight
// row exists for the chosen industry before the profile change commits.
// Both writes happen in one transaction with an extended timeout since
// first-time industries require a generation call.
func (s *Service) UpdateProfile(ctx context.Context, authID string, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.store.GetUserByAuthID(ctx, nil, authID)
	if err != nil {
		return nil, err
	}

	industry := utils.NormalizeIndustry(req.Industry)

	var updated *models.User
	run := func() error {
		return s.store.WithTransaction(ctx, s.txTimeout, func(txCtx context.Context, tx *gorm.DB) error {
			existing, err := s.store.GetInsight(txCtx, tx, industry)
			if err != nil {
				return err
			}
			if existing == nil {
				if err := s.createInsight(txCtx, tx, industry); err != nil {
					return err
				}
			}

			user.Industry = industry
			user.Experience = req.Experience
			user.Bio = req.Bio
			if req.Skills != nil {
				raw, err := models.EncodeSkills(req.Skills)
				if err != nil {
					return err
				}
				user.Skills = raw
			}
			if err := s.store.UpdateUserProfile(txCtx, tx, user); err != nil {
				return err
			}
			updated = user
			return nil
		})
	}

	if err := run(); err != nil {
		// A concurrent request inserted the same industry first. The
		// unique violation aborted our transaction, so rerun it: the
		// row now exists and the retry takes the fast path.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := run(); err != nil {
				return nil, err
			}
			return updated, nil
		}
		return nil, err
	}
	return updated, nil
}

// ensureInsight lazily creates the insight row for an industry inside a
// transaction, retrying once when a concurrent insert wins the race.
func (s *Service) ensureInsight(ctx context.Context, industry string) (*models.IndustryInsight, error) {
	var result *models.IndustryInsight
	run := func() error {
		return s.store.WithTransaction(ctx, s.txTimeout, func(txCtx context.Context, tx *gorm.DB) error {
			existing, err := s.store.GetInsight(txCtx, tx, industry)
			if err != nil {
				return err
			}
			if existing != nil {
				result = existing
				return nil
			}

			insight, err := s.buildInsight(txCtx, industry)
			if err != nil {
				return err
			}
			if err := s.store.CreateInsight(txCtx, tx, insight); err != nil {
				return err
			}
			result = insight
			return nil
		})
	}

	if err := run(); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := run(); err != nil {
				return nil, err
			}
			return result, nil
		}
		return nil, err
	}
	return result, nil
}

// createInsight generates and inserts an insight row using the given
// transaction handle.
func (s *Service) createInsight(ctx context.Context, tx *gorm.DB, industry string) error {
	insight, err := s.buildInsight(ctx, industry)
	if err != nil {
		return err
	}
	return s.store.CreateInsight(ctx, tx, insight)
}

func (s *Service) buildInsight(ctx context.Context, industry string) (*models.IndustryInsight, error) {
	payload, err := s.generator.Generate(ctx, industry)
	if err != nil {
		return nil, err
	}
	raw, err := payload.Encode()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &models.IndustryInsight{
		Industry:    industry,
		Payload:     raw,
		LastUpdated: now,
		NextUpdate:  now.Add(s.refreshInterval),
	}, nil
}

// RefreshIndustry regenerates the payload for an existing industry and
// advances its refresh window. A failed generation leaves the stored row
// untouched so the next sweep retries it.
func (s *Service) RefreshIndustry(ctx context.Context, industry string) error {
	insight, err := s.buildInsight(ctx, industry)
	if err != nil {
		return err
	}
	if err := s.store.UpsertInsight(ctx, nil, insight); err != nil {
		return err
	}

	s.logger.Info("Refreshed industry insight", map[string]interface{}{
		"industry":    industry,
		"next_update": insight.NextUpdate,
	})
	return nil
}

// ListIndustries returns every industry with a stored insight row
func (s *Service) ListIndustries(ctx context.Context) ([]string, error) {
	return s.store.ListIndustries(ctx)
}

// ListInsights returns all stored insight rows
func (s *Service) ListInsights(ctx context.Context) ([]models.IndustryInsight, error) {
	return s.store.ListInsights(ctx)
}
