package utils

const ShortDashDateLayout = "2006-01-02"

// Exchange prefixes used in portfolio exports, mapped to the suffix the
// market-data provider expects.
var ExchangeSuffixes = map[string]string{
	"TSE":  ".TO",
	"TSX":  ".TO",
	"TSXV": ".V",
	"CVE":  ".V",
}
