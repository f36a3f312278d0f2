package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"roomrank/internal/score"
)

// maxResponseBytes caps a gateway response body.
const maxResponseBytes = 64 << 10

// HTTP reads room attributes from a remote sensor gateway.
// GET {url}/rooms/{room} must answer 200 with a JSON object of attributes,
// e.g. {"HVAC Temp": 22.5, "Current Occupancy": 3}.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP creates a gateway provider. timeout bounds every request.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		url:    baseURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) Attributes(ctx context.Context, room string) (score.AttributeSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url+"/rooms/"+url.PathEscape(room), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return score.AttributeSet{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sensor gateway response error code=%d status=%s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("sensor gateway: response exceeds %d bytes", maxResponseBytes)
	}

	attrs := make(score.AttributeSet)
	if err := json.Unmarshal(body, &attrs); err != nil {
		return nil, fmt.Errorf("sensor gateway: %w", err)
	}
	return attrs, nil
}
