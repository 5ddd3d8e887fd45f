package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBaseModelBeforeCreateGeneratesID(t *testing.T) {
	var base BaseModel
	require.NoError(t, base.BeforeCreate(nil))
	require.NotEmpty(t, base.ID)
}

func TestEmbeddedModelsUseBaseBeforeCreate(t *testing.T) {
	cases := []struct {
		name  string
		model func() *BaseModel
	}{
		{"business", func() *BaseModel { m := &Business{}; return &m.BaseModel }},
		{"business_preference", func() *BaseModel { m := &BusinessPreference{}; return &m.BaseModel }},
		{"customer", func() *BaseModel { m := &Customer{}; return &m.BaseModel }},
		{"wallet", func() *BaseModel { m := &Wallet{}; return &m.BaseModel }},
		{"asset", func() *BaseModel { m := &Asset{}; return &m.BaseModel }},
		{"transaction", func() *BaseModel { m := &Transaction{}; return &m.BaseModel }},
		{"transaction_approval", func() *BaseModel { m := &TransactionApproval{}; return &m.BaseModel }},
		{"auth_meta_data", func() *BaseModel { m := &AuthMetaData{}; return &m.BaseModel }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := tc.model()
			require.NoError(t, base.BeforeCreate(nil))
			require.NotEmpty(t, base.ID)
		})
	}
}

func TestAccountBeforeCreateDefaults(t *testing.T) {
	account := &Account{}
	require.NoError(t, account.BeforeCreate(nil))
	require.NotEmpty(t, account.ID)
	require.Equal(t, RoleUser, account.Role)
	require.Equal(t, TwoFactorNone, account.TwoFactorOption)
	require.NotNil(t, account.Permissions)

	existing := &Account{ID: "fixed", Role: RoleAdmin}
	require.NoError(t, existing.BeforeCreate(nil))
	require.Equal(t, "fixed", existing.ID)
	require.Equal(t, RoleAdmin, existing.Role)
}

func TestAccountContactHelpers(t *testing.T) {
	var nilAccount *Account
	require.Empty(t, nilAccount.EmailAddress())

	email := "user@example.com"
	phone := "+2348000000000"
	account := &Account{Email: &email, Phone: &phone}
	require.Equal(t, email, account.EmailAddress())
	require.Equal(t, phone, account.PhoneNumber())
	require.Equal(t, "user@example.com", NormaliseEmail("  User@Example.COM "))
}

func TestTransactionTypeWalletEffect(t *testing.T) {
	require.Equal(t, 1, TransactionCustomerDeposit.WalletEffect())
	require.Equal(t, 1, TransactionLoanRepayment.WalletEffect())
	require.Equal(t, -1, TransactionPayout.WalletEffect())
	require.Equal(t, -1, TransactionLoanOut.WalletEffect())
	require.Equal(t, 0, TransactionExpense.WalletEffect())
	require.True(t, TransactionIncome.Valid())
	require.False(t, TransactionType("gift").Valid())
}

func TestRoleAndFrequencyValidity(t *testing.T) {
	require.True(t, RoleRoot.Valid())
	require.False(t, Role("owner").Valid())
	require.True(t, PaymentBiweekly.Valid())
	require.False(t, PaymentFrequency("yearly").Valid())
}

func TestCacheEntryExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.True(t, CacheEntry{ExpiresAt: now}.Expired(now))
	require.False(t, CacheEntry{ExpiresAt: now.Add(time.Second)}.Expired(now))
	require.False(t, CacheEntry{}.Expired(now))
	require.Equal(t, 2.5, Wallet{Credit: 5, Debit: 2.5}.Balance())
}
