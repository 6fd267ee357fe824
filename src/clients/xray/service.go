package xray

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"pipeline/src/config"
	"pipeline/src/utils/requests"
)

var ErrMissingCredentials = errors.New("xray client id and client secret must be set")

type XrayServiceClientI interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) (string, error)
	ImportJUnit(ctx context.Context, token, projectKey string, report []byte) (*ImportResponse, error)
}

// XrayServiceClient talks to the Xray cloud REST API v2.
type XrayServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
}

func NewClient(cfg *config.Config, httpClient *http.Client) *XrayServiceClient {
	return &XrayServiceClient{
		API:     requests.NewExternalAPIService(httpClient, 60*time.Second),
		BaseURL: cfg.ExternalClients.Xray.BaseURL,
	}
}

// Authenticate exchanges client credentials for a bearer token.
func (c *XrayServiceClient) Authenticate(ctx context.Context, clientID, clientSecret string) (string, error) {
	if clientID == "" || clientSecret == "" {
		return "", ErrMissingCredentials
	}

	body := AuthenticateRequest{ClientID: clientID, ClientSecret: clientSecret}
	resp, err := c.API.Post(ctx, c.BaseURL+"/api/v2/authenticate", "", nil, body)
	if err != nil {
		return "", err
	}

	responseBody, err := requests.ReadBody(resp)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate with xray: %w", err)
	}

	// The token comes back as a bare JSON string.
	var token string
	if err := json.Unmarshal(responseBody, &token); err != nil {
		return "", fmt.Errorf("unexpected authentication response: %w", err)
	}
	if token == "" {
		return "", errors.New("xray returned an empty token")
	}
	return token, nil
}

// ImportJUnit forwards a raw JUnit XML report and returns the created test execution.
func (c *XrayServiceClient) ImportJUnit(ctx context.Context, token, projectKey string, report []byte) (*ImportResponse, error) {
	params := url.Values{}
	params.Add("projectKey", projectKey)

	resp, err := c.API.PostRaw(ctx, c.BaseURL+"/api/v2/import/execution/junit", token, params, report, "application/xml")
	if err != nil {
		return nil, err
	}

	responseBody, err := requests.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to publish results: %w", err)
	}

	var result ImportResponse
	if err := json.Unmarshal(responseBody, &result); err != nil {
		return nil, fmt.Errorf("unexpected import response: %w", err)
	}
	return &result, nil
}
