package properties

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'client',
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE properties (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			property_type TEXT NOT NULL,
			listing_type TEXT NOT NULL,
			price NUMERIC NOT NULL DEFAULT 0,
			location TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			bedrooms INTEGER,
			bathrooms INTEGER,
			area_sqm NUMERIC,
			parking_spaces INTEGER,
			features TEXT,
			agent_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			views_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE property_images (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL,
			image_url TEXT NOT NULL,
			is_primary BOOLEAN NOT NULL DEFAULT 0,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return conn
}

func seedProperty(t *testing.T, repo *Repository, agentID uuid.UUID, status enums.PropertyStatus, price int64, city string) *models.Property {
	t.Helper()
	property := &models.Property{
		Title:        "Listing " + uuid.NewString()[:8],
		Description:  "Seeded listing",
		PropertyType: enums.PropertyTypeHouse,
		ListingType:  enums.ListingTypeRent,
		Price:        decimal.NewFromInt(price),
		Location:     "Kinondoni",
		City:         city,
		AgentID:      agentID,
		Status:       status,
	}
	if err := repo.Create(context.Background(), property); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return property
}

func TestRepoCreateAndFindWithOrderedImages(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	property := seedProperty(t, repo, uuid.New(), enums.PropertyStatusApproved, 500000, "Dar es Salaam")

	secondary := &models.PropertyImage{PropertyID: property.ID, ImageURL: "/uploads/b.jpg", DisplayOrder: 2}
	primary := &models.PropertyImage{PropertyID: property.ID, ImageURL: "/uploads/a.jpg", IsPrimary: true}
	if err := repo.AddImage(ctx, secondary); err != nil {
		t.Fatalf("add image: %v", err)
	}
	if err := repo.AddImage(ctx, primary); err != nil {
		t.Fatalf("add image: %v", err)
	}

	found, err := repo.FindByID(ctx, property.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(found.Images))
	}
	if found.Images[0].ImageURL != "/uploads/a.jpg" {
		t.Fatalf("expected primary image first, got %s", found.Images[0].ImageURL)
	}
	if !found.Price.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("price round trip failed: %s", found.Price)
	}
}

func TestRepoIncrementViewsIsMonotonic(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	property := seedProperty(t, repo, uuid.New(), enums.PropertyStatusApproved, 100, "Mwanza")

	for i := 0; i < 3; i++ {
		if err := repo.IncrementViews(ctx, property.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	found, err := repo.FindByID(ctx, property.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ViewsCount != 3 {
		t.Fatalf("expected views 3, got %d", found.ViewsCount)
	}
}

func TestRepoListScopeAndFilters(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	agentID := uuid.New()
	otherID := uuid.New()

	seedProperty(t, repo, agentID, enums.PropertyStatusApproved, 300000, "Dar es Salaam")
	seedProperty(t, repo, agentID, enums.PropertyStatusPending, 900000, "Dar es Salaam")
	seedProperty(t, repo, otherID, enums.PropertyStatusApproved, 700000, "Arusha")

	approved := enums.PropertyStatusApproved
	scoped, err := repo.List(ctx, Scope{Status: approved}, ListFilter{})
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("expected 2 approved, got %d", len(scoped))
	}

	own, err := repo.List(ctx, Scope{AgentID: &agentID}, ListFilter{})
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("expected 2 own, got %d", len(own))
	}

	minPrice := decimal.NewFromInt(500000)
	expensive, err := repo.List(ctx, Scope{Status: approved}, ListFilter{MinPrice: &minPrice})
	if err != nil {
		t.Fatalf("list min price: %v", err)
	}
	if len(expensive) != 1 || !expensive[0].Price.Equal(decimal.NewFromInt(700000)) {
		t.Fatalf("expected single expensive listing, got %d", len(expensive))
	}

	city, err := repo.List(ctx, Scope{Status: approved}, ListFilter{City: "Arusha"})
	if err != nil {
		t.Fatalf("list city: %v", err)
	}
	if len(city) != 1 {
		t.Fatalf("expected 1 Arusha listing, got %d", len(city))
	}
}

func TestRepoUpdateAndDelete(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	property := seedProperty(t, repo, uuid.New(), enums.PropertyStatusPending, 100, "Dodoma")

	updated, err := repo.Update(ctx, property.ID, map[string]any{"status": enums.PropertyStatusApproved})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != enums.PropertyStatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}

	if err := repo.Delete(ctx, property.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, property.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found on second delete, got %v", err)
	}
}

func TestRepoStatsByStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	seedProperty(t, repo, uuid.New(), enums.PropertyStatusApproved, 100, "Dar es Salaam")
	seedProperty(t, repo, uuid.New(), enums.PropertyStatusApproved, 300, "Dar es Salaam")
	seedProperty(t, repo, uuid.New(), enums.PropertyStatusPending, 500, "Dar es Salaam")

	rows, err := repo.StatsByStatus(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	byStatus := map[enums.PropertyStatus]StatusStat{}
	for _, row := range rows {
		byStatus[row.Status] = row
	}
	if byStatus[enums.PropertyStatusApproved].Count != 2 {
		t.Fatalf("expected 2 approved, got %d", byStatus[enums.PropertyStatusApproved].Count)
	}
	if !byStatus[enums.PropertyStatusApproved].AvgPrice.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected avg 200, got %s", byStatus[enums.PropertyStatusApproved].AvgPrice)
	}
}
