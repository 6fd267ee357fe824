package services

//nolint:depguard
import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"pipeline/src/models"
	"pipeline/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"
)

var ErrMissingColumn = errors.New("missing column")

type PortfolioLoaderI interface {
	Load(ctx context.Context, path string) dataframe.DataFrame
}

type PortfolioLoader struct{}

func NewPortfolioLoader() *PortfolioLoader {
	return &PortfolioLoader{}
}

// Load reads a portfolio CSV into a DataFrame with normalized column names.
// An unreadable, empty or header-only file yields an empty DataFrame.
func (l *PortfolioLoader) Load(ctx context.Context, path string) dataframe.DataFrame {
	logger := utils.LoggerFromContext(ctx)

	records, err := utils.ReadCSVRecords(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("portfolio file unreadable, using empty portfolio")
		return dataframe.DataFrame{}
	}
	if len(records) < 2 {
		return dataframe.DataFrame{}
	}

	headers := utils.NormalizeHeaders(records[0], models.ColumnAliases)
	rows := records[1:]

	types := map[string]series.Type{}
	if priceIdx := utils.ColumnIndex(headers, models.ColPrice); priceIdx >= 0 {
		types[models.ColPrice] = series.Float
		for _, row := range rows {
			row[priceIdx] = CleanPrice(row[priceIdx])
		}
	}
	if utils.ColumnIndex(headers, models.ColShares) >= 0 {
		types[models.ColShares] = series.Float
	}

	df := dataframe.LoadRecords(
		append([][]string{headers}, rows...),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		logger.WithError(df.Err).WithField("path", path).Warn("portfolio file invalid, using empty portfolio")
		return dataframe.DataFrame{}
	}
	return df
}

// CleanPrice strips currency markers and thousands separators from a price
// cell ("C$1,250.50" becomes "1250.50"). Values that still do not parse
// become "NaN".
func CleanPrice(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
		return "NaN"
	}
	return cleaned
}

// RowsFromFrame converts a portfolio DataFrame into typed rows. The ticker
// and share count columns are required; prices are optional.
func RowsFromFrame(df dataframe.DataFrame) ([]models.SecurityRow, error) {
	if utils.IsEmpty(df) {
		return nil, nil
	}
	for _, col := range []string{models.ColTicker, models.ColShares} {
		if !utils.HasCol(df, col) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	tickers := df.Col(models.ColTicker)
	shares := df.Col(models.ColShares)
	hasName := utils.HasCol(df, models.ColCompanyName)
	hasPrice := utils.HasCol(df, models.ColPrice)
	hasMarket := utils.HasCol(df, models.ColMarketPrice)

	rows := make([]models.SecurityRow, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		row := models.SecurityRow{
			Ticker: strings.TrimSpace(tickers.Elem(i).String()),
			Shares: elemInt(shares.Elem(i)),
		}
		if hasName {
			row.CompanyName = strings.TrimSpace(df.Col(models.ColCompanyName).Elem(i).String())
		}
		if hasPrice {
			row.Price = elemDecimal(df.Col(models.ColPrice).Elem(i))
		}
		if hasMarket {
			row.MarketPrice = elemDecimal(df.Col(models.ColMarketPrice).Elem(i))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func elemInt(e series.Element) int64 {
	if e.IsNA() {
		return 0
	}
	f := e.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(math.Round(f))
}

func elemDecimal(e series.Element) *decimal.Decimal {
	if e.IsNA() {
		return nil
	}
	f := e.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	d := decimal.NewFromFloat(f)
	return &d
}
