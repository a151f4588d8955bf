package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"careerpilot-api/pkg/models"
	"careerpilot-api/pkg/utils"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared&_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// Hold one connection for the test's lifetime: a shared-cache in-memory
	// database is dropped as soon as its last connection closes.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	keepalive, err := sqlDB.Conn(context.Background())
	if err != nil {
		t.Fatalf("failed to pin sqlite connection: %v", err)
	}
	t.Cleanup(func() { keepalive.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return New(db)
}

func testInsight(industry string) *models.IndustryInsight {
	now := time.Now().UTC()
	payload := models.InsightPayload{
		SalaryRanges: []models.SalaryRange{
			{Role: "Engineer", Min: 60000, Max: 150000, Median: 95000, Location: "Remote"},
		},
		GrowthRate:        4.2,
		DemandLevel:       "High",
		TopSkills:         []string{"Go", "SQL"},
		MarketOutlook:     "Positive",
		KeyTrends:         []string{"AI adoption"},
		RecommendedSkills: []string{"Kubernetes"},
	}
	raw, _ := payload.Encode()
	return &models.IndustryInsight{
		Industry:    industry,
		Payload:     raw,
		LastUpdated: now,
		NextUpdate:  now.Add(7 * 24 * time.Hour),
	}
}

func TestGetInsightMissing(t *testing.T) {
	s := testStore(t)

	insight, err := s.GetInsight(context.Background(), nil, "Technology")
	if err != nil {
		t.Fatalf("GetInsight failed: %v", err)
	}
	if insight != nil {
		t.Fatalf("expected nil for missing industry, got %+v", insight)
	}
}

func TestCreateAndGetInsight(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.CreateInsight(ctx, nil, testInsight("Technology")); err != nil {
		t.Fatalf("CreateInsight failed: %v", err)
	}

	got, err := s.GetInsight(ctx, nil, "Technology")
	if err != nil {
		t.Fatalf("GetInsight failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected insight row, got nil")
	}
	if got.Industry != "Technology" {
		t.Fatalf("unexpected industry: %s", got.Industry)
	}

	payload, err := got.DecodePayload()
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if payload.DemandLevel != "High" {
		t.Fatalf("unexpected demand level: %s", payload.DemandLevel)
	}
}

func TestCreateInsightDuplicateKey(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.CreateInsight(ctx, nil, testInsight("Finance")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := s.CreateInsight(ctx, nil, testInsight("Finance"))
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestUpsertInsightReplacesPayload(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := testInsight("Healthcare")
	if err := s.UpsertInsight(ctx, nil, first); err != nil {
		t.Fatalf("initial upsert failed: %v", err)
	}

	updated := testInsight("Healthcare")
	updated.LastUpdated = first.LastUpdated.Add(time.Hour)
	updated.NextUpdate = first.NextUpdate.Add(time.Hour)
	if err := s.UpsertInsight(ctx, nil, updated); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := s.GetInsight(ctx, nil, "Healthcare")
	if err != nil {
		t.Fatalf("GetInsight failed: %v", err)
	}
	if !got.LastUpdated.After(first.LastUpdated) {
		t.Fatalf("expected last_updated to advance, got %v", got.LastUpdated)
	}

	industries, err := s.ListIndustries(ctx)
	if err != nil {
		t.Fatalf("ListIndustries failed: %v", err)
	}
	if len(industries) != 1 {
		t.Fatalf("upsert should not create a second row, got %v", industries)
	}
}

func TestListIndustries(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, industry := range []string{"Technology", "Finance", "Healthcare"} {
		if err := s.CreateInsight(ctx, nil, testInsight(industry)); err != nil {
			t.Fatalf("insert %s failed: %v", industry, err)
		}
	}

	industries, err := s.ListIndustries(ctx)
	if err != nil {
		t.Fatalf("ListIndustries failed: %v", err)
	}
	if len(industries) != 3 {
		t.Fatalf("expected 3 industries, got %d", len(industries))
	}
	if industries[0] != "Finance" {
		t.Fatalf("expected sorted order, got %v", industries)
	}
}

func TestGetUserByAuthIDNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetUserByAuthID(context.Background(), nil, "missing-auth-id")
	if !errors.Is(err, utils.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	user := &models.User{
		ID:     uuid.New(),
		AuthID: "auth-123",
		Email:  "dev@example.com",
		Name:   "Test User",
	}
	if err := s.CreateUser(ctx, nil, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user.Industry = "Technology"
	user.Experience = "5+ years"
	user.Bio = "Backend developer"
	if err := s.UpdateUserProfile(ctx, nil, user); err != nil {
		t.Fatalf("UpdateUserProfile failed: %v", err)
	}

	got, err := s.GetUserByAuthID(ctx, nil, "auth-123")
	if err != nil {
		t.Fatalf("GetUserByAuthID failed: %v", err)
	}
	if got.Industry != "Technology" || got.Experience != "5+ years" {
		t.Fatalf("profile not updated: %+v", got)
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.WithTransaction(ctx, 5*time.Second, func(txCtx context.Context, tx *gorm.DB) error {
		if err := s.CreateInsight(txCtx, tx, testInsight("Energy")); err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	insight, err := s.GetInsight(ctx, nil, "Energy")
	if err != nil {
		t.Fatalf("GetInsight failed: %v", err)
	}
	if insight != nil {
		t.Fatal("rolled back insert should not be visible")
	}
}

func TestWithTransactionPassesDeadlineContext(t *testing.T) {
	s := testStore(t)

	err := s.WithTransaction(context.Background(), 5*time.Second, func(txCtx context.Context, tx *gorm.DB) error {
		deadline, ok := txCtx.Deadline()
		if !ok {
			t.Fatal("callback context carries no deadline")
		}
		if remaining := time.Until(deadline); remaining > 5*time.Second {
			t.Fatalf("deadline exceeds the transaction budget: %v", remaining)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTransaction failed: %v", err)
	}
}
