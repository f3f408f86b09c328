package ephem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/antikythera/internal/logging"
	"github.com/litescript/antikythera/internal/metrics"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout = 30 * time.Second

	// DefaultRequestsPerSecond keeps a calibration run polite to JPL.
	DefaultRequestsPerSecond = 2

	// MaxRows is the largest table Horizons returns in one response.
	MaxRows = 90000
)

// HorizonsConfig configures the Horizons client.
type HorizonsConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *logging.Logger
}

// DefaultHorizonsConfig returns sensible default configuration.
func DefaultHorizonsConfig() HorizonsConfig {
	return HorizonsConfig{
		BaseURL:           HorizonsAPIURL,
		Timeout:           RequestTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
	}
}

// HorizonsSource queries JPL Horizons for Earth's heliocentric vectors.
type HorizonsSource struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	log     *logging.Logger

	// Response cache; a calibration run revisits the same brackets.
	mu    sync.RWMutex
	cache map[vectorKey][]VectorRecord
}

type vectorKey struct {
	start, stop int64
	step        time.Duration
}

// NewHorizonsSource creates a new Horizons API client.
func NewHorizonsSource(cfg HorizonsConfig) *HorizonsSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = HorizonsAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = RequestTimeout
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &HorizonsSource{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(limit, 1),
		log:     log.Component("horizons"),
		cache:   make(map[vectorKey][]VectorRecord),
	}
}

// Name implements Source.
func (h *HorizonsSource) Name() string {
	return "horizons"
}

// EarthVectors implements Source. Results are cached per request.
func (h *HorizonsSource) EarthVectors(ctx context.Context, start, stop time.Time, step time.Duration) ([]VectorRecord, error) {
	key := vectorKey{start: start.Unix(), stop: stop.Unix(), step: step}

	h.mu.RLock()
	cached, ok := h.cache[key]
	h.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if step < time.Minute {
		return nil, fmt.Errorf("horizons step must be at least a minute, got %v", step)
	}
	if rows := stop.Sub(start) / step; rows > MaxRows {
		return nil, fmt.Errorf("horizons request of %d rows exceeds %d", rows, MaxRows)
	}

	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("horizons rate limit: %w", err)
	}

	began := time.Now()
	records, err := h.query(ctx, start, stop, step)
	metrics.RecordHorizonsRequest(time.Since(began), err)
	if err != nil {
		h.log.Warn("query %s..%s failed: %v", formatHorizonsTime(start), formatHorizonsTime(stop), err)
		return nil, err
	}
	h.log.Debug("query %s..%s step %s: %d rows in %v",
		formatHorizonsTime(start), formatHorizonsTime(stop), formatStepSize(step), len(records), time.Since(began))

	h.mu.Lock()
	h.cache[key] = records
	h.mu.Unlock()

	return records, nil
}

// query makes a request to the Horizons API.
func (h *HorizonsSource) query(ctx context.Context, start, stop time.Time, step time.Duration) ([]VectorRecord, error) {
	// Build request parameters - values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", "'399'") // Earth
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "VECTORS")
	params.Set("CENTER", "'500@10'")  // Sun body center
	params.Set("REF_PLANE", "FRAME") // ICRF equatorial
	params.Set("REF_SYSTEM", "ICRF")
	params.Set("VEC_TABLE", "'1'") // Position only
	params.Set("VEC_LABELS", "YES")
	params.Set("OUT_UNITS", "'AU-D'")
	params.Set("CSV_FORMAT", "NO")
	params.Set("START_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(start)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(stop)))
	params.Set("STEP_SIZE", fmt.Sprintf("'%s'", formatStepSize(step)))

	reqURL := h.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build horizons request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("horizons request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseVectorResponse(body)
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseVectorResponse parses the Horizons JSON response for vector data.
func parseVectorResponse(body []byte) ([]VectorRecord, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("horizons error: %s", resp.Error)
	}

	table, err := ExtractTable(resp.Result)
	if err != nil {
		return nil, err
	}
	records, err := ParseVectorTable(table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	return records, nil
}

// formatHorizonsTime formats a time for Horizons API.
func formatHorizonsTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// formatStepSize formats a duration as a Horizons step size.
func formatStepSize(d time.Duration) string {
	minutes := int(d.Minutes())
	switch {
	case minutes >= 24*60 && minutes%(24*60) == 0:
		return fmt.Sprintf("%d d", minutes/(24*60))
	case minutes >= 60 && minutes%60 == 0:
		return fmt.Sprintf("%d h", minutes/60)
	default:
		return fmt.Sprintf("%d m", minutes)
	}
}
