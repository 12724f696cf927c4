// Package relay exposes the generation endpoints over HTTP. Each request is
// validated, encoded into parts, sent to the generator once and mapped onto
// a JSON envelope.
package relay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/m2tx/kinchat/internal/formatter"
	"github.com/m2tx/kinchat/internal/generation"
	"github.com/m2tx/kinchat/internal/log"
	"github.com/m2tx/kinchat/internal/model"
	"github.com/m2tx/kinchat/internal/repository"
)

// DefaultMaxMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const DefaultMaxMemory = 32 << 20

// Relay holds the dependencies shared by every endpoint. It keeps no state
// between requests.
type Relay struct {
	generator generation.Generator
	exchanges repository.ExchangeRepository
	format    func(string) string
	maxMemory int64
	logger    log.Logger
	now       func() time.Time
}

// Option configures a Relay.
type Option func(*Relay)

// WithExchangeRepository records every exchange in repo.
func WithExchangeRepository(repo repository.ExchangeRepository) Option {
	return func(r *Relay) {
		if repo != nil {
			r.exchanges = repo
		}
	}
}

// WithFormatter replaces the output formatter. Pass nil to return the
// generated text unchanged.
func WithFormatter(format func(string) string) Option {
	return func(r *Relay) { r.format = format }
}

// WithMaxMemory sets the in-memory threshold for multipart parsing.
func WithMaxMemory(n int64) Option {
	return func(r *Relay) {
		if n > 0 {
			r.maxMemory = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Relay over generator.
func New(generator generation.Generator, opts ...Option) *Relay {
	r := &Relay{
		generator: generator,
		exchanges: repository.NewMemoryExchangeRepository(repository.DefaultMemoryCapacity),
		format:    formatter.Format,
		maxMemory: DefaultMaxMemory,
		logger:    log.Default,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// generate submits parts and formats the result.
func (r *Relay) generate(ctx context.Context, parts []model.Part) (string, error) {
	text, err := r.generator.Generate(ctx, parts)
	if err != nil {
		return "", err
	}

	if r.format != nil {
		text = r.format(text)
	}

	return text, nil
}

// respond writes the envelope for the outcome of one exchange, then records
// and logs the exchange.
func (r *Relay) respond(w http.ResponseWriter, req *http.Request, ex *model.Exchange, start time.Time,
	output string, err error, failure string) {
	status := http.StatusOK
	var body any = Response{Output: output, Success: true}

	if err != nil {
		var errBody ErrorResponse
		status, errBody = failureResponse(err, failure)
		body = errBody
		ex.ErrorKind = generation.KindOf(err).String()
		r.logger.Errorw("generation failed",
			"id", ex.ID,
			"modality", ex.Modality,
			"kind", ex.ErrorKind,
			"error", err,
		)
	}

	writeJSON(w, status, body)

	ex.Status = status
	ex.Duration = r.now().Sub(start)

	if recErr := r.exchanges.Record(req.Context(), *ex); recErr != nil {
		r.logger.Warnf("relay: record exchange %q: %v", ex.ID, recErr)
	}

	r.logger.Infow("exchange",
		"id", ex.ID,
		"modality", ex.Modality,
		"status", ex.Status,
		"duration", ex.Duration,
	)
}

// failureResponse maps an error onto an HTTP status and error body.
func failureResponse(err error, failure string) (int, ErrorResponse) {
	switch generation.KindOf(err) {
	case generation.KindValidation:
		message := "Invalid request"
		var genErr *generation.Error
		if errors.As(err, &genErr) && genErr.Message != "" {
			message = genErr.Message
		}
		return http.StatusBadRequest, ErrorResponse{Error: message}
	case generation.KindAuth:
		return http.StatusUnauthorized, ErrorResponse{
			Error:   "API Key Error",
			Message: "Invalid or missing Gemini API key. Please check your .env.local file.",
		}
	case generation.KindConfig:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "API configuration error",
			Message: "GEMINI_API_KEY is not set. Please create a .env.local file with your Gemini API key.",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: failure}
	}
}
