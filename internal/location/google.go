package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

const distanceMatrixPath = "/maps/api/distancematrix/json"

// GoogleRanker реализует Ranker поверх Google Distance Matrix API.
type GoogleRanker struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoogleRanker(apiKey, baseURL string, timeout time.Duration) *GoogleRanker {
	return &GoogleRanker{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

func (g *GoogleRanker) Rank(ctx context.Context, originZip string, candidates []Candidate) ([]uuid.UUID, error) {
	if len(candidates) == 0 {
		return nil, ErrNoDistanceData
	}

	zips := make([]string, 0, len(candidates))
	for _, c := range candidates {
		zips = append(zips, c.Zipcode)
	}

	params := url.Values{}
	params.Set("origins", originZip)
	params.Set("destinations", strings.Join(zips, "|"))
	params.Set("key", g.apiKey)
	reqURL := g.baseURL + distanceMatrixPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("location: failed to build distance matrix request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location: distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location: distance matrix returned status %d", resp.StatusCode)
	}

	var matrix distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&matrix); err != nil {
		return nil, fmt.Errorf("location: failed to decode distance matrix response: %w", err)
	}

	if len(matrix.Rows) == 0 || len(matrix.Rows[0].Elements) != len(candidates) {
		return nil, ErrNoDistanceData
	}

	distances := make([]int, len(candidates))
	for i, el := range matrix.Rows[0].Elements {
		if el.Status != "OK" {
			log.Warn().Str("element_status", el.Status).Str("zipcode", candidates[i].Zipcode).
				Msg("location: no distance for warehouse zipcode")
			return nil, ErrNoDistanceData
		}
		distances[i] = el.Distance.Value
	}

	// Стабильная сортировка: при равных дистанциях сохраняется входной
	// порядок кандидатов.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return distances[order[i]] < distances[order[j]]
	})

	ranked := make([]uuid.UUID, len(candidates))
	for pos, idx := range order {
		ranked[pos] = candidates[idx].ID
	}
	return ranked, nil
}
