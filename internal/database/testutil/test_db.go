package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/database"
	"github.com/charlesng35/corpman/internal/models"
)

// TestDBOption customises MustOpenTestDB.
type TestDBOption func(*testDBConfig)

type testDBConfig struct {
	migrate bool
	seed    bool
}

// WithAutoMigrate creates the full schema.
func WithAutoMigrate() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.migrate = true
	}
}

// WithSeedData creates the schema and inserts the default app modules.
func WithSeedData() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.migrate = true
		cfg.seed = true
	}
}

// MustOpenTestDB opens a private in-memory sqlite database that is closed when the test ends.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	var cfg testDBConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := database.Open(database.Config{Driver: "sqlite", DSN: database.MemoryDSN(uuid.NewString())})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	switch {
	case cfg.seed:
		require.NoError(t, database.AutoMigrateAndSeed(db))
	case cfg.migrate:
		require.NoError(t, database.AutoMigrate(db))
	}

	return db
}

// AccountOption adjusts an account created by SeedAccount.
type AccountOption func(*models.Account)

// Unverified leaves the seeded account's email unverified.
func Unverified() AccountOption {
	return func(a *models.Account) { a.IsEmailVerified = false }
}

// WithRole sets the seeded account's role.
func WithRole(role models.Role) AccountOption {
	return func(a *models.Account) { a.Role = role }
}

// InBusiness links the seeded account to businessID.
func InBusiness(businessID string) AccountOption {
	return func(a *models.Account) { a.BusinessID = &businessID }
}

// SeedAccount inserts a verified user-role account for email.
func SeedAccount(t *testing.T, db *gorm.DB, email string, opts ...AccountOption) *models.Account {
	t.Helper()

	account := &models.Account{
		Email:           &email,
		Role:            models.RoleUser,
		IsEmailVerified: true,
	}
	for _, opt := range opts {
		opt(account)
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

// SeedBusiness inserts a business with default preferences and returns it.
func SeedBusiness(t *testing.T, db *gorm.DB, name string) *models.Business {
	t.Helper()

	business := &models.Business{Name: name, Phone: "+2348000000000"}
	require.NoError(t, db.Create(business).Error)
	require.NoError(t, db.Create(&models.BusinessPreference{BusinessID: business.ID}).Error)
	return business
}
