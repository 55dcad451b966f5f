package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/oddsline/vigor/models"
)

type httpScoreProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPScoreProvider returns a ScoreProvider backed by a score feed that
// serves GET {base}/events/{id}/score as an EventScore document.
func NewHTTPScoreProvider(baseURL string, timeout time.Duration) ScoreProvider {
	return &httpScoreProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *httpScoreProvider) FinalScore(ctx context.Context, eventID string) (*EventScore, error) {
	endpoint := fmt.Sprintf("%s/events/%s/score", p.baseURL, url.PathEscape(eventID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build score request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score feed request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrRecordNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("score feed returned status %d for event %s", resp.StatusCode, eventID)
	}

	var score EventScore
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return nil, fmt.Errorf("failed to decode score payload: %w", err)
	}
	if score.EventID == "" {
		score.EventID = eventID
	}
	return &score, nil
}
