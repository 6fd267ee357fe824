package services

//nolint:depguard
import (
	"context"
	"math"

	"pipeline/src/clients/yahoo"
	"pipeline/src/models"
	"pipeline/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PriceSource string

const (
	PriceSourceMarket   PriceSource = "market"
	PriceSourceFallback PriceSource = "fallback"
)

// PriceQuote is the outcome of a best-effort lookup: either the fetched
// market price or the listed price it fell back to. Price is invalid when
// the fallback had no listed price either.
type PriceQuote struct {
	Ticker string
	Symbol string
	Price  decimal.NullDecimal
	Source PriceSource
}

type EnrichServiceI interface {
	Enrich(ctx context.Context, df dataframe.DataFrame) dataframe.DataFrame
}

type EnrichService struct {
	priceClient yahoo.YahooServiceClientI
}

func NewEnrichService(priceClient yahoo.YahooServiceClientI) *EnrichService {
	return &EnrichService{priceClient: priceClient}
}

// Quote looks up the market price for ticker and falls back to listed.
func (s *EnrichService) Quote(ctx context.Context, ticker string, listed decimal.NullDecimal) PriceQuote {
	symbol := utils.TranslateTicker(ticker)
	quote := PriceQuote{Ticker: ticker, Symbol: symbol}

	price, err := s.priceClient.GetMarketPrice(ctx, symbol)
	if err != nil {
		utils.LoggerFromContext(ctx).WithError(err).WithFields(logrus.Fields{
			"ticker": ticker,
			"symbol": symbol,
		}).Warn("market price lookup failed, using listed price")
		quote.Price = listed
		quote.Source = PriceSourceFallback
		return quote
	}

	quote.Price = decimal.NewNullDecimal(price)
	quote.Source = PriceSourceMarket
	return quote
}

// Enrich sets the market_price column of every row. A failed lookup keeps
// the row's listed price and never aborts the batch.
func (s *EnrichService) Enrich(ctx context.Context, df dataframe.DataFrame) dataframe.DataFrame {
	if utils.IsEmpty(df) || !utils.HasCol(df, models.ColTicker) {
		return df
	}

	tickers := df.Col(models.ColTicker)
	hasPrice := utils.HasCol(df, models.ColPrice)

	marketPrices := make([]float64, df.Nrow())
	fallbacks := 0
	for i := 0; i < df.Nrow(); i++ {
		var listed decimal.NullDecimal
		if hasPrice {
			if p := elemDecimal(df.Col(models.ColPrice).Elem(i)); p != nil {
				listed = decimal.NewNullDecimal(*p)
			}
		}

		quote := s.Quote(ctx, tickers.Elem(i).String(), listed)
		if quote.Source == PriceSourceFallback {
			fallbacks++
		}
		if quote.Price.Valid {
			marketPrices[i] = quote.Price.Decimal.InexactFloat64()
		} else {
			marketPrices[i] = math.NaN()
		}
	}

	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"rows":      df.Nrow(),
		"fallbacks": fallbacks,
	}).Info("enrichment finished")

	return df.Mutate(series.New(marketPrices, series.Float, models.ColMarketPrice))
}
