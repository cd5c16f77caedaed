package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"videorelay/internal/domain"
	"videorelay/internal/infra"
	"videorelay/internal/videogen"
)

const maxGenerateBodyBytes = 1 << 20

type generateSuccess struct {
	Success  bool   `json:"success"`
	VideoURL string `json:"video_url"`
}

type generateFailure struct {
	Success bool `json:"success"`
	Error   any  `json:"error"`
}

// GenerateVideo handles POST /generate-video. The request blocks until the
// provider job is terminal.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req videogen.Request
	body := http.MaxBytesReader(w, r.Body, maxGenerateBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		// An unreadable body carries neither field.
		req = videogen.Request{}
	}

	result, err := a.Videos.Generate(r.Context(), req)
	if err != nil {
		a.generateError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, generateSuccess{Success: true, VideoURL: result.VideoURL})
}

func (a *App) generateError(w http.ResponseWriter, r *http.Request, err error) {
	log := a.requestLogger(r)

	var (
		validationErr *domain.ValidationError
		submissionErr *domain.ProviderSubmissionError
		timeoutErr    *domain.ProviderPollTimeoutError
	)
	switch {
	case errors.As(err, &validationErr):
		a.json(w, http.StatusBadRequest, generateFailure{Error: validationErr.Message})
	case errors.Is(err, domain.ErrTooManyInFlight):
		log.Warn().Msg("generate: rejected, admission bound reached")
		a.json(w, http.StatusServiceUnavailable, generateFailure{Error: err.Error()})
	case errors.As(err, &submissionErr):
		log.Error().Int("provider_status", submissionErr.StatusCode).Msg("generate: generation request failed")
		a.json(w, submissionErr.StatusCode, generateFailure{Error: submissionErr.Payload})
	case errors.As(err, &timeoutErr):
		log.Error().Err(err).Msg("generate: provider did not finish in time")
		a.json(w, http.StatusGatewayTimeout, generateFailure{Error: err.Error()})
	default:
		log.Error().Err(err).Msg("generate: failed")
		a.json(w, http.StatusInternalServerError, generateFailure{Error: err.Error()})
	}
}

func (a *App) requestLogger(r *http.Request) *zerolog.Logger {
	return infra.LoggerFrom(r.Context(), a.Logger)
}
