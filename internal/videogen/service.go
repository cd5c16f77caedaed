package videogen

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"

	"videorelay/internal/domain"
	"videorelay/internal/infra"
	"videorelay/internal/metrics"
	"videorelay/internal/providers/xai"
)

// Provider is the video generation API used by the Service.
type Provider interface {
	StatusFetcher
	Submit(ctx context.Context, req xai.GenerationRequest) (*xai.SubmitResponse, error)
}

// Request is the client input of one generation.
type Request struct {
	Sentence string `json:"sentence"`
	ImageURL string `json:"image_url"`
}

// Validate reports a *domain.ValidationError when a field is absent or empty.
// Content is not inspected further.
func (r Request) Validate() error {
	if r.Sentence == "" || r.ImageURL == "" {
		return &domain.ValidationError{Message: domain.MissingInputMessage}
	}
	return nil
}

// Result is the outcome of a finished generation.
type Result struct {
	JobID    string
	VideoURL string
}

// Options configures a Service.
type Options struct {
	Provider    Provider
	Poller      *Poller
	Duration    int
	AspectRatio string
	Resolution  string
	// MaxInflight bounds concurrent generations; zero means unbounded.
	MaxInflight int
	Logger      *infra.Logger
	Metrics     *metrics.Collector
}

// Service runs the submit, poll and resolve lifecycle of a generation.
type Service struct {
	provider    Provider
	poller      *Poller
	duration    int
	aspectRatio string
	resolution  string
	inflight    *semaphore.Weighted
	logger      *infra.Logger
	metrics     *metrics.Collector
}

// NewService constructs a Service. When opts.Poller is nil a poller with
// default settings is built over the provider.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	poller := opts.Poller
	if poller == nil {
		poller = NewPoller(opts.Provider, PollerOptions{Logger: logger, Metrics: opts.Metrics})
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = 8
	}
	aspect := opts.AspectRatio
	if aspect == "" {
		aspect = "16:9"
	}
	resolution := opts.Resolution
	if resolution == "" {
		resolution = "720p"
	}
	var inflight *semaphore.Weighted
	if opts.MaxInflight > 0 {
		inflight = semaphore.NewWeighted(int64(opts.MaxInflight))
	}
	return &Service{
		provider:    opts.Provider,
		poller:      poller,
		duration:    duration,
		aspectRatio: aspect,
		resolution:  resolution,
		inflight:    inflight,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// Generate validates req, submits the job, waits for it and resolves the
// video URL. It blocks until the job is terminal or ctx ends.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result, err := s.generate(ctx, req)
	s.metrics.RecordGeneration(outcomeOf(err), time.Since(start))
	return result, err
}

func (s *Service) generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.inflight != nil {
		if !s.inflight.TryAcquire(1) {
			return nil, domain.ErrTooManyInFlight
		}
		defer s.inflight.Release(1)
	}
	s.metrics.GenerationStarted()
	defer s.metrics.GenerationFinished()

	reqLog := infra.LoggerFrom(ctx, s.logger)
	reqLog.Info().Msg("videogen: starting video generation")
	submitted, err := s.provider.Submit(ctx, xai.GenerationRequest{
		Prompt:      BuildPrompt(req.Sentence),
		ImageURL:    req.ImageURL,
		Duration:    s.duration,
		AspectRatio: s.aspectRatio,
		Resolution:  s.resolution,
	})
	if err != nil {
		var subErr *domain.ProviderSubmissionError
		if errors.As(err, &subErr) {
			return nil, subErr
		}
		return nil, &domain.UnexpectedError{Op: "submit", Err: err}
	}
	jobID := submitted.JobID()
	log := reqLog.With().Str("job_id", jobID).Logger()
	log.Info().Msg("videogen: job submitted")

	status, err := s.poller.Wait(ctx, jobID)
	if err != nil {
		log.Warn().Err(err).Msg("videogen: job did not complete")
		return nil, err
	}
	videoURL := status.ResultURL()
	log.Info().Str("video_url", videoURL).Msg("videogen: job completed")
	return &Result{JobID: jobID, VideoURL: videoURL}, nil
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	var (
		validationErr *domain.ValidationError
		submissionErr *domain.ProviderSubmissionError
		jobErr        *domain.ProviderJobFailedError
		timeoutErr    *domain.ProviderPollTimeoutError
	)
	switch {
	case errors.As(err, &validationErr):
		return metrics.OutcomeValidation
	case errors.Is(err, domain.ErrTooManyInFlight):
		return metrics.OutcomeRejected
	case errors.As(err, &submissionErr):
		return metrics.OutcomeSubmissionFailed
	case errors.As(err, &jobErr):
		return metrics.OutcomeJobFailed
	case errors.As(err, &timeoutErr):
		return metrics.OutcomeTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
