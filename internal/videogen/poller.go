package videogen

import (
	"context"
	"errors"
	"time"

	"videorelay/internal/domain"
	"videorelay/internal/infra"
	"videorelay/internal/metrics"
	"videorelay/internal/providers/xai"
)

// DefaultPollInterval is the delay between two status queries.
const DefaultPollInterval = 10 * time.Second

// StatusFetcher queries the state of a provider job.
type StatusFetcher interface {
	Status(ctx context.Context, jobID string) (*xai.StatusResponse, error)
}

// PollerOptions configures a Poller. Zero Timeout and MaxAttempts leave the
// corresponding bound disabled.
type PollerOptions struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxAttempts int
	Logger      *infra.Logger
	Metrics     *metrics.Collector
}

// Poller waits for a provider job to reach a terminal state.
type Poller struct {
	fetcher     StatusFetcher
	interval    time.Duration
	timeout     time.Duration
	maxAttempts int
	logger      *infra.Logger
	metrics     *metrics.Collector
}

// NewPoller constructs a Poller over fetcher.
func NewPoller(fetcher StatusFetcher, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Poller{
		fetcher:     fetcher,
		interval:    interval,
		timeout:     opts.Timeout,
		maxAttempts: opts.MaxAttempts,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// Wait queries the job status immediately and then once per interval until:
// a response carries video.url (returned), status or state is an explicit
// failure marker (*domain.ProviderJobFailedError), a configured bound is hit
// (*domain.ProviderPollTimeoutError) or ctx ends (ctx.Err()). Any other
// response keeps the loop waiting. A failed query ends the wait with a
// *domain.UnexpectedError.
func (p *Poller) Wait(ctx context.Context, jobID string) (*xai.StatusResponse, error) {
	pollCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	log := infra.LoggerFrom(ctx, p.logger).With().Str("job_id", jobID).Logger()

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		resp, err := p.fetcher.Status(pollCtx, jobID)
		if err != nil {
			if ctxErr := p.stopReason(ctx, pollCtx, jobID, attempt-1); ctxErr != nil {
				return nil, ctxErr
			}
			p.metrics.RecordPoll("error")
			return nil, &domain.UnexpectedError{Op: "poll " + jobID, Err: err}
		}
		log.Debug().
			Int("attempt", attempt).
			RawJSON("body", rawOrNull(resp.Raw)).
			Msg("poll: full response")

		if url := resp.CompletedURL(); url != "" {
			p.metrics.RecordPoll("succeeded")
			log.Info().Int("attempt", attempt).Msg("poll: done, video URL received")
			return resp, nil
		}

		status := resp.StatusText()
		log.Info().
			Int("attempt", attempt).
			Int("http_status", resp.HTTPStatus).
			Str("status", status).
			Msg("poll: waiting")
		if xai.IsFailureStatus(status) {
			p.metrics.RecordPoll("failed")
			return nil, &domain.ProviderJobFailedError{JobID: jobID, Status: status, Body: resp.Raw}
		}
		p.metrics.RecordPoll("pending")

		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return nil, &domain.ProviderPollTimeoutError{JobID: jobID, Attempts: attempt, Reason: "max attempts reached"}
		}

		timer.Reset(p.interval)
		select {
		case <-pollCtx.Done():
			return nil, p.stopReason(ctx, pollCtx, jobID, attempt)
		case <-timer.C:
		}
	}
}

// stopReason maps a finished poll context to the error returned to the
// caller, or nil while pollCtx is still live.
func (p *Poller) stopReason(parent, pollCtx context.Context, jobID string, attempts int) error {
	if pollCtx.Err() == nil {
		return nil
	}
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
		return &domain.ProviderPollTimeoutError{JobID: jobID, Attempts: attempts, Reason: "poll timeout " + p.timeout.String() + " exceeded"}
	}
	return pollCtx.Err()
}

func rawOrNull(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
