package location_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/inventory-management-system/internal/location"
)

func matrixBody(distances ...int) string {
	elements := ""
	for i, d := range distances {
		if i > 0 {
			elements += ","
		}
		elements += fmt.Sprintf(`{"status":"OK","distance":{"value":%d}}`, d)
	}
	return fmt.Sprintf(`{"status":"OK","rows":[{"elements":[%s]}]}`, elements)
}

func TestGoogleRanker_Rank(t *testing.T) {
	w1 := uuid.Must(uuid.NewV4())
	w2 := uuid.Must(uuid.NewV4())
	w3 := uuid.Must(uuid.NewV4())
	candidates := []location.Candidate{
		{ID: w1, Zipcode: "10115"},
		{ID: w2, Zipcode: "20095"},
		{ID: w3, Zipcode: "80331"},
	}

	tests := []struct {
		name     string
		body     string
		status   int
		expected []uuid.UUID
		wantErr  bool
	}{
		{
			name:     "sorted_by_distance",
			body:     matrixBody(500, 100, 300),
			status:   http.StatusOK,
			expected: []uuid.UUID{w2, w3, w1},
		},
		{
			name:     "ties_keep_input_order",
			body:     matrixBody(200, 100, 100),
			status:   http.StatusOK,
			expected: []uuid.UUID{w2, w3, w1},
		},
		{
			name:    "empty_rows",
			body:    `{"status":"OK","rows":[]}`,
			status:  http.StatusOK,
			wantErr: true,
		},
		{
			name:    "element_without_distance",
			body:    `{"status":"OK","rows":[{"elements":[{"status":"OK","distance":{"value":1}},{"status":"NOT_FOUND"},{"status":"OK","distance":{"value":2}}]}]}`,
			status:  http.StatusOK,
			wantErr: true,
		},
		{
			name:    "element_count_mismatch",
			body:    matrixBody(100),
			status:  http.StatusOK,
			wantErr: true,
		},
		{
			name:    "http_error",
			body:    `{}`,
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
				assert.Equal(t, "11011", r.URL.Query().Get("origins"))
				assert.Equal(t, "10115|20095|80331", r.URL.Query().Get("destinations"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			ranker := location.NewGoogleRanker("test-key", srv.URL, time.Second)
			ranked, err := ranker.Rank(context.Background(), "11011", candidates)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ranked)
		})
	}
}

func TestGoogleRanker_Rank_NoCandidates(t *testing.T) {
	ranker := location.NewGoogleRanker("test-key", "http://127.0.0.1:0", time.Second)
	_, err := ranker.Rank(context.Background(), "11011", nil)
	assert.ErrorIs(t, err, location.ErrNoDistanceData)
}

func TestGoogleRanker_Rank_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(matrixBody(1)))
	}))
	defer srv.Close()

	ranker := location.NewGoogleRanker("test-key", srv.URL, 20*time.Millisecond)
	_, err := ranker.Rank(context.Background(), "11011", []location.Candidate{{ID: uuid.Must(uuid.NewV4()), Zipcode: "10115"}})
	assert.Error(t, err)
}
