package utils

import "strings"

// TranslateTicker converts an exchange-prefixed ticker such as "TSE:REI.UN"
// into the provider symbol "REI-UN.TO". Tickers without a known prefix are
// returned unchanged.
func TranslateTicker(ticker string) string {
	exchange, symbol, found := strings.Cut(ticker, ":")
	if !found {
		return ticker
	}
	suffix, ok := ExchangeSuffixes[exchange]
	if !ok {
		return ticker
	}
	return strings.ReplaceAll(symbol, ".", "-") + suffix
}
