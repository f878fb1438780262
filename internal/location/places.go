package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const placesAutocompletePath = "/maps/api/place/autocomplete/json"

// PlacesClient проксирует автодополнение почтовых индексов из Google
// Places. Ответ отдаётся как есть — фронтенду нужен сырой JSON.
type PlacesClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPlacesClient(apiKey, baseURL string, timeout time.Duration) *PlacesClient {
	return &PlacesClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *PlacesClient) SuggestZips(ctx context.Context, input string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("input", input)
	params.Set("types", "(regions)")
	params.Set("key", p.apiKey)
	reqURL := p.baseURL + placesAutocompletePath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("location: failed to build places request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location: places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location: places returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("location: failed to read places response: %w", err)
	}
	return json.RawMessage(body), nil
}
