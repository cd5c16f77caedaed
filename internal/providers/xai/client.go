package xai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"videorelay/internal/domain"
	"videorelay/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("xai: api key is required")

const (
	defaultBaseURL = "https://api.x.ai/v1/videos"
	defaultModel   = "grok-imagine-video"

	// maxBodyBytes caps provider responses read into memory.
	maxBodyBytes = 4 << 20
)

// Options configures the xAI video client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the xAI video generation API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// GenerationRequest captures the inputs of a single video generation job.
type GenerationRequest struct {
	Prompt      string
	ImageURL    string
	Duration    int
	AspectRatio string
	Resolution  string
}

type generationPayload struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	ImageURL    string `json:"image_url"`
	Duration    int    `json:"duration"`
	AspectRatio string `json:"aspect_ratio"`
	Resolution  string `json:"resolution"`
}

// SubmitResponse is the provider acknowledgement of a generation job. The
// identifier arrives as request_id or id depending on the API revision and
// is kept raw so a numeric id still resolves.
type SubmitResponse struct {
	RequestID json.RawMessage `json:"request_id"`
	ID        json.RawMessage `json:"id"`
}

// JobID returns the job identifier, preferring request_id over id.
func (r *SubmitResponse) JobID() string {
	return firstNonEmpty(asString(r.RequestID), asString(r.ID))
}

// StatusResponse is a job status snapshot. Every field is optional and kept
// raw; a field of an unexpected type reads as absent.
type StatusResponse struct {
	Status   json.RawMessage `json:"status"`
	State    json.RawMessage `json:"state"`
	Video    json.RawMessage `json:"video"`
	VideoURL json.RawMessage `json:"video_url"`
	URL      json.RawMessage `json:"url"`
	Output   json.RawMessage `json:"output"`

	// HTTPStatus is the status code the snapshot was served with.
	HTTPStatus int `json:"-"`
	// Raw holds the undecoded response body.
	Raw []byte `json:"-"`
}

// CompletedURL returns the nested video.url that marks a finished job, or "".
func (r *StatusResponse) CompletedURL() string {
	return nestedURL(r.Video)
}

// ResultURL resolves the output location in priority order video.url,
// video_url, url, output.url.
func (r *StatusResponse) ResultURL() string {
	return firstNonEmpty(r.CompletedURL(), asString(r.VideoURL), asString(r.URL), nestedURL(r.Output))
}

// StatusText returns status, falling back to state.
func (r *StatusResponse) StatusText() string {
	return firstNonEmpty(asString(r.Status), asString(r.State))
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("xai: invalid base url: %w", err)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Submit creates a generation job. A non-2xx answer is returned as a
// *domain.ProviderSubmissionError carrying the provider status and body.
func (c *Client) Submit(ctx context.Context, req GenerationRequest) (*SubmitResponse, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	body, err := json.Marshal(generationPayload{
		Model:       c.model,
		Prompt:      req.Prompt,
		ImageURL:    req.ImageURL,
		Duration:    req.Duration,
		AspectRatio: req.AspectRatio,
		Resolution:  req.Resolution,
	})
	if err != nil {
		return nil, fmt.Errorf("xai: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("xai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	status, raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		c.logger.Warn().
			Int("status", status).
			RawJSON("body", jsonOrQuoted(raw)).
			Msg("xai: generation request rejected")
		return nil, &domain.ProviderSubmissionError{StatusCode: status, Payload: decodePayload(raw)}
	}

	var decoded SubmitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("xai: decode submission: %w", err)
	}
	if decoded.JobID() == "" {
		return nil, fmt.Errorf("xai: submission response carries no request_id or id: %s", strings.TrimSpace(string(raw)))
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("job_id", decoded.JobID()).
		Msg("xai: generation submitted")
	return &decoded, nil
}

// Status fetches the current state of a job. Any decodable body is returned
// whatever the HTTP status, leaving its classification to the caller; only
// transport failures and undecodable bodies are errors.
func (c *Client) Status(ctx context.Context, jobID string) (*StatusResponse, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, errors.New("xai: job id is required")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("xai: build request: %w", err)
	}

	status, raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	var decoded StatusResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("xai: decode status (http %d): %w", status, err)
	}
	decoded.HTTPStatus = status
	decoded.Raw = raw
	if status < 200 || status >= 300 {
		c.logger.Warn().
			Int("status", status).
			Str("job_id", jobID).
			RawJSON("body", jsonOrQuoted(raw)).
			Msg("xai: status query answered with non-2xx")
	}
	return &decoded, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("xai: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("xai: read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// IsFailureStatus reports whether a status or state value is an explicit
// failure marker.
func IsFailureStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "failed", "error":
		return true
	}
	return false
}

func decodePayload(raw []byte) any {
	var payload any
	if err := json.Unmarshal(raw, &payload); err == nil {
		return payload
	}
	return strings.TrimSpace(string(raw))
}

func jsonOrQuoted(raw []byte) []byte {
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// asString reads a JSON string or non-zero number; anything else is "".
func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil && f != 0 {
			return n.String()
		}
	}
	return ""
}

// nestedURL reads the url member of a JSON object; anything else is "".
func nestedURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		URL json.RawMessage `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return asString(obj.URL)
}
