package repositories_test

import (
	"context"
	"testing"
	"time"

	"pipeline/src/models"
	"pipeline/src/repositories"
	"pipeline/src/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSecurity(t *testing.T, repo repositories.SecurityRepository, ticker string) *models.Security {
	t.Helper()
	security := &models.Security{Ticker: ticker, CompanyName: ticker + " Inc."}
	require.NoError(t, repo.Create(context.Background(), security, nil))
	return security
}

func TestSecurityRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get by ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repositories.NewSecurityRepository(db)

		created := seedSecurity(t, repo, "AAPL")
		assert.NotZero(t, created.ID)

		found, err := repo.GetByTicker(ctx, "AAPL", nil)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "AAPL Inc.", found.CompanyName)
	})

	t.Run("ticker lookup ignores case", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repositories.NewSecurityRepository(db)
		created := seedSecurity(t, repo, "MSFT")

		found, err := repo.GetByTicker(ctx, "msft", nil)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "MSFT", found.Ticker)

		_, err = repo.GetByTicker(ctx, "MSF", nil)
		assert.ErrorIs(t, err, repositories.ErrSecurityNotFound)
	})

	t.Run("duplicate ticker is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repositories.NewSecurityRepository(db)
		seedSecurity(t, repo, "AAPL")

		err := repo.Create(ctx, &models.Security{Ticker: "AAPL"}, nil)
		assert.Error(t, err)
	})

	t.Run("get all is ordered by id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repositories.NewSecurityRepository(db)
		seedSecurity(t, repo, "MSFT")
		seedSecurity(t, repo, "AAPL")

		all, err := repo.GetAll(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "MSFT", all[0].Ticker)
		assert.Equal(t, "AAPL", all[1].Ticker)
	})

	t.Run("delete removes valuation history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repositories.NewSecurityRepository(db)
		valuations := repositories.NewValuationRepository(db)

		gone := seedSecurity(t, repo, "GOOGL")
		kept := seedSecurity(t, repo, "AAPL")
		date := time.Date(2024, 10, 24, 0, 0, 0, 0, time.UTC)
		for _, s := range []*models.Security{gone, kept} {
			require.NoError(t, valuations.Upsert(ctx, &models.Valuation{
				SecurityID: s.ID,
				Date:       date,
				Value:      decimal.NewFromInt(100),
			}, nil))
		}

		require.NoError(t, repo.DeleteByIDs(ctx, []uint{gone.ID}, nil))

		assert.Equal(t, int64(1), testutil.CountRows(t, db, "securities"))
		assert.Equal(t, int64(1), testutil.CountRows(t, db, "valuations"))
		_, err := repo.GetByTicker(ctx, "GOOGL", nil)
		assert.ErrorIs(t, err, repositories.ErrSecurityNotFound)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repositories.NewSecurityRepository(db)

		err := repo.Transaction(ctx, func(tx *gorm.DB) error {
			require.NoError(t, repo.Create(ctx, &models.Security{Ticker: "TSLA"}, tx))
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, int64(0), testutil.CountRows(t, db, "securities"))
	})
}
