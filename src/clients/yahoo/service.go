package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"pipeline/src/config"
	"pipeline/src/utils"
	"pipeline/src/utils/requests"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// ErrPriceNotFound is returned when the response has no usable price.
var ErrPriceNotFound = errors.New("market price not found")

type YahooServiceClientI interface {
	GetMarketPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// YahooServiceClient queries the chart endpoint for the latest regular market price.
type YahooServiceClient struct {
	API        *requests.ExternalAPIService
	BaseURL    string
	PriceField string

	prices *utils.Cache[string, decimal.Decimal]
}

// NewClient creates a new instance of YahooServiceClient
func NewClient(cfg *config.Config, httpClient *http.Client) *YahooServiceClient {
	yc := cfg.ExternalClients.Yahoo
	timeout := time.Duration(yc.TimeoutSeconds) * time.Second
	return &YahooServiceClient{
		API:        requests.NewExternalAPIService(httpClient, timeout).WithUserAgent(yc.UserAgent),
		BaseURL:    yc.BaseURL,
		PriceField: yc.PriceField,
		prices:     utils.NewCache[string, decimal.Decimal](time.Duration(yc.CacheSeconds) * time.Second),
	}
}

// GetMarketPrice fetches the current price for a provider symbol (e.g. "REI-UN.TO").
// Successful lookups are cached for the configured number of seconds.
func (c *YahooServiceClient) GetMarketPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if price, ok := c.prices.Get(symbol); ok {
		return price, nil
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.BaseURL, url.PathEscape(symbol))

	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", "1d")

	resp, err := c.API.Get(ctx, endpoint, "", params)
	if err != nil {
		return decimal.Decimal{}, err
	}

	responseBody, err := requests.ReadBody(resp)
	if err != nil {
		return decimal.Decimal{}, err
	}

	var document interface{}
	if err := json.Unmarshal(responseBody, &document); err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed response for %s: %w", symbol, err)
	}

	price, err := extractPrice(document, c.PriceField, symbol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	c.prices.Set(symbol, price)
	return price, nil
}

func extractPrice(document interface{}, path, symbol string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, document)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: %v", symbol, ErrPriceNotFound, err)
	}
	// jsonpath returns a list for wildcard/filter paths; keep the first element
	if jlist, ok := jval.([]interface{}); ok {
		if len(jlist) == 0 {
			return decimal.Decimal{}, fmt.Errorf("%s: %w", symbol, ErrPriceNotFound)
		}
		jval = jlist[0]
	}

	var price decimal.Decimal
	switch v := jval.(type) {
	case float64:
		price = decimal.NewFromFloat(v)
	case string:
		price, err = decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%s: %w: %q", symbol, ErrPriceNotFound, v)
		}
	default:
		return decimal.Decimal{}, fmt.Errorf("%s: %w: unexpected value %v", symbol, ErrPriceNotFound, jval)
	}

	if !price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: non-positive price %s", symbol, ErrPriceNotFound, price)
	}
	return price, nil
}
