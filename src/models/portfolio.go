package models

import "github.com/shopspring/decimal"

// Canonical portfolio CSV column names, after header normalization.
const (
	ColTicker      = "ticker"
	ColCompanyName = "nom_entreprise"
	ColShares      = "no_of_shares"
	ColPrice       = "price"
	ColMarketPrice = "market_price"
)

// ColumnAliases maps alternative headers onto the canonical names.
var ColumnAliases = map[string]string{
	"company_name": ColCompanyName,
	"company":      ColCompanyName,
	"name":         ColCompanyName,
	"shares":       ColShares,
	"quantity":     ColShares,
	"symbol":       ColTicker,
}

// SecurityRow is one portfolio line as consumed by the persister.
// Price and MarketPrice are nil when the column is absent or the cell is empty.
type SecurityRow struct {
	Ticker      string
	CompanyName string
	Shares      int64
	Price       *decimal.Decimal
	MarketPrice *decimal.Decimal
}

// ValuationPrice picks market price, then listed price, then zero.
func (r SecurityRow) ValuationPrice() decimal.Decimal {
	if r.MarketPrice != nil {
		return *r.MarketPrice
	}
	if r.Price != nil {
		return *r.Price
	}
	return decimal.Zero
}

// Value is the row's worth: ValuationPrice times share count.
func (r SecurityRow) Value() decimal.Decimal {
	return r.ValuationPrice().Mul(decimal.NewFromInt(r.Shares))
}
