package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/database/testutil"
	"github.com/charlesng35/corpman/internal/models"
	apperrors "github.com/charlesng35/corpman/pkg/errors"
)

func reloadAccount(t *testing.T, db *gorm.DB, id string) *models.Account {
	t.Helper()
	var account models.Account
	require.NoError(t, db.Take(&account, "uid = ?", id).Error)
	return &account
}

func TestCreateBusinessLinksAccount(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewBusinessService(db)
	require.NoError(t, err)

	ctx := context.Background()
	owner := testutil.SeedAccount(t, db, "owner@example.com")

	business, err := svc.Create(ctx, owner.ID, CreateBusinessInput{
		Name:    " Acme Cooperative ",
		Phone:   "+2348000000000",
		Modules: []string{"Customers", "transactions", "customers", ""},
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Cooperative", business.Name)
	require.Equal(t, []string{"customers", "transactions"}, []string(business.Modules))
	require.Equal(t, models.KYCPending, business.KYCStatus)
	require.NotNil(t, business.Preferences)

	owner = reloadAccount(t, db, owner.ID)
	require.NotNil(t, owner.BusinessID)
	require.Equal(t, business.ID, *owner.BusinessID)

	loaded, err := svc.ForAccount(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, business.ID, loaded.ID)
	require.NotNil(t, loaded.Preferences)

	_, err = svc.Create(ctx, owner.ID, CreateBusinessInput{Name: "Second", Phone: "+2348000000001"})
	require.ErrorIs(t, err, apperrors.ErrBusinessAlreadyLinked)

	var count int64
	require.NoError(t, db.Model(&models.Business{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "failed link must roll back the business")
}

func TestCreateBusinessUnknownAccount(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewBusinessService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "missing", CreateBusinessInput{Name: "Acme", Phone: "1"})
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestRequireBusiness(t *testing.T) {
	_, err := RequireBusiness(&models.Account{})
	require.ErrorIs(t, err, apperrors.ErrBusinessRequired)

	_, err = RequireBusiness(nil)
	require.ErrorIs(t, err, apperrors.ErrBusinessRequired)

	id := "biz"
	got, err := RequireBusiness(&models.Account{BusinessID: &id})
	require.NoError(t, err)
	require.Equal(t, "biz", got)
}

func TestCustomerServiceCreatesWallet(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	businessID := testutil.SeedBusiness(t, db, "Acme").ID
	svc, err := NewCustomerService(db)
	require.NoError(t, err)

	ctx := context.Background()
	customer, err := svc.Create(ctx, businessID, CreateCustomerInput{FirstName: "Ada", Email: "ADA@example.com"})
	require.NoError(t, err)
	require.Equal(t, models.PaymentMonthly, customer.PaymentFrequency)
	require.Equal(t, "ada@example.com", customer.Email)
	require.NotNil(t, customer.Wallet)

	loaded, err := svc.Get(ctx, businessID, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Wallet)
	require.Zero(t, loaded.Wallet.Balance())

	_, err = svc.Get(ctx, "other-business", customer.ID)
	require.ErrorIs(t, err, apperrors.ErrCustomerNotFound)

	_, err = svc.Create(ctx, businessID, CreateCustomerInput{FirstName: "Bad", PaymentFrequency: "hourly"})
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	list, err := svc.List(ctx, businessID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAssetServiceDefaults(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	businessID := testutil.SeedBusiness(t, db, "Acme").ID
	svc, err := NewAssetService(db)
	require.NoError(t, err)

	ctx := context.Background()
	asset, err := svc.Create(ctx, businessID, CreateAssetInput{Name: "Generator", Value: 1200})
	require.NoError(t, err)
	require.Equal(t, models.AssetEquipment, asset.Type)
	require.Equal(t, models.AssetConditionNew, asset.Condition)
	require.Equal(t, models.AssetAvailable, asset.Status)
	require.False(t, asset.PurchaseDate.IsZero())

	assets, err := svc.List(ctx, businessID)
	require.NoError(t, err)
	require.Len(t, assets, 1)
}
