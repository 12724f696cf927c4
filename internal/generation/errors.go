package generation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Kind classifies a failed generation.
type Kind int

const (
	// KindUpstream is any remote failure that is not an authentication problem.
	KindUpstream Kind = iota
	// KindConfig means the client has no usable credential. It holds for every
	// request until the process is restarted with a valid configuration.
	KindConfig
	// KindValidation is a client-correctable problem with the request.
	KindValidation
	// KindAuth means the remote service rejected the credential.
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	default:
		return "upstream"
	}
}

// ErrMissingCredential is the cause of a KindConfig error when no API key was set.
var ErrMissingCredential = errors.New("GEMINI_API_KEY is not set")

// Error is a classified generation failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("generation: %s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError returns a KindValidation error with the given message.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the kind of err, treating unclassified errors as upstream failures.
func KindOf(err error) Kind {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindUpstream
}

// classify maps an error returned by the genai SDK onto the taxonomy.
func classify(err error) *Error {
	if isAuthError(err) {
		return &Error{Kind: KindAuth, Message: "credential rejected", Err: err}
	}
	return &Error{Kind: KindUpstream, Message: "generate content", Err: err}
}

// isAuthError matches the signatures Gemini uses for a bad credential:
// HTTP 401/403, or a 400 whose status or message names the API key.
func isAuthError(err error) bool {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return mentionsAPIKey(err.Error())
	}

	if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
		return true
	}
	return mentionsAPIKey(apiErr.Status) || mentionsAPIKey(apiErr.Message)
}

func mentionsAPIKey(s string) bool {
	return strings.Contains(s, "API_KEY") || strings.Contains(strings.ToLower(s), "api key")
}
