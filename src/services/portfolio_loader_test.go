package services_test

import (
	"context"
	"math"
	"testing"

	"pipeline/src/models"
	"pipeline/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioLoaderLoad(t *testing.T) {
	loader := services.NewPortfolioLoader()
	ctx := context.Background()

	t.Run("normalizes headers and cleans prices", func(t *testing.T) {
		df := loader.Load(ctx, fixture("happy_path.csv"))
		require.NoError(t, df.Err)
		require.Equal(t, 2, df.Nrow())

		assert.ElementsMatch(t,
			[]string{models.ColTicker, models.ColCompanyName, models.ColShares, models.ColPrice},
			df.Names())
		assert.Equal(t, []string{"MSFT", "TSE:REI.UN"}, df.Col(models.ColTicker).Records())
		assert.InDelta(t, 250.50, df.Col(models.ColPrice).Elem(0).Float(), 1e-9)
		assert.InDelta(t, 20.00, df.Col(models.ColPrice).Elem(1).Float(), 1e-9)
		assert.InDelta(t, 10, df.Col(models.ColShares).Elem(0).Float(), 1e-9)
	})

	t.Run("missing file is empty", func(t *testing.T) {
		df := loader.Load(ctx, fixture("does_not_exist.csv"))
		assert.Equal(t, 0, df.Nrow())
	})

	t.Run("empty file is empty", func(t *testing.T) {
		df := loader.Load(ctx, fixture("empty.csv"))
		assert.Equal(t, 0, df.Nrow())
	})

	t.Run("header only file is empty", func(t *testing.T) {
		df := loader.Load(ctx, fixture("header_only.csv"))
		assert.Equal(t, 0, df.Nrow())
	})

	t.Run("price column is optional", func(t *testing.T) {
		df := loader.Load(ctx, fixture("missing_price_column.csv"))
		require.Equal(t, 1, df.Nrow())

		rows, err := services.RowsFromFrame(df)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "AAPL", rows[0].Ticker)
		assert.Nil(t, rows[0].Price)
		assert.True(t, rows[0].Value().IsZero())
	})

	t.Run("aliases and unparseable prices", func(t *testing.T) {
		df := loader.Load(ctx, fixture("aliases.csv"))
		require.Equal(t, 2, df.Nrow())

		assert.InDelta(t, 1200.25, df.Col(models.ColPrice).Elem(0).Float(), 1e-9)
		assert.True(t, math.IsNaN(df.Col(models.ColPrice).Elem(1).Float()))

		rows, err := services.RowsFromFrame(df)
		require.NoError(t, err)
		assert.Equal(t, "Apple Inc.", rows[0].CompanyName)
		assert.Equal(t, int64(3), rows[0].Shares)
		assert.Nil(t, rows[1].Price)
	})
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"C$250.50", "250.50"},
		{"$1,200.25", "1200.25"},
		{"  42 ", "42"},
		{"-3.5", "-3.5"},
		{"n/a", "NaN"},
		{"", "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, services.CleanPrice(tt.raw))
		})
	}
}

func TestRowsFromFrameRequiresShares(t *testing.T) {
	df := services.NewPortfolioLoader().Load(context.Background(), fixture("sync_test.csv"))
	df = df.Drop(models.ColShares)

	_, err := services.RowsFromFrame(df)
	assert.ErrorIs(t, err, services.ErrMissingColumn)
}
