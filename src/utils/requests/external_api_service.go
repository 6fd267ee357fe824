package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"pipeline/src/utils"
)

// ExternalAPIService is a struct representing a configurable external service
type ExternalAPIService struct {
	client    *http.Client
	userAgent string
}

// NewExternalAPIService creates a new instance of ExternalAPIService.
// A nil client gets a default one with the given timeout.
func NewExternalAPIService(client *http.Client, timeout time.Duration) *ExternalAPIService {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &ExternalAPIService{client: client}
}

// WithUserAgent sets the User-Agent sent on every request.
func (s *ExternalAPIService) WithUserAgent(userAgent string) *ExternalAPIService {
	s.userAgent = userAgent
	return s
}

// makeRequest is a helper function to make HTTP requests, supporting optional query parameters
func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint, token string, params url.Values, body io.Reader, contentType string) (*http.Response, error) {
	// Convert params to query string
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	return s.client.Do(req)
}

// Get makes a GET request to the external service, accepting optional query parameters
func (s *ExternalAPIService) Get(ctx context.Context, endpoint, token string, params url.Values) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodGet, endpoint, token, params, nil, "")
}

// Post makes a JSON POST request to the external service
func (s *ExternalAPIService) Post(ctx context.Context, endpoint, token string, params url.Values, body interface{}) (*http.Response, error) {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}
	return s.makeRequest(ctx, http.MethodPost, endpoint, token, params, bytes.NewReader(jsonBody), "application/json")
}

// PostRaw posts an already encoded payload with the given content type.
func (s *ExternalAPIService) PostRaw(ctx context.Context, endpoint, token string, params url.Values, payload []byte, contentType string) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodPost, endpoint, token, params, bytes.NewReader(payload), contentType)
}

// ReadBody drains and closes resp.Body. Statuses above 201 become an
// *utils.HTTPError carrying the body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode > http.StatusCreated {
		return nil, utils.NewHTTPErrorWithBody(resp.StatusCode, resp.Status, string(responseBody))
	}
	return responseBody, nil
}
