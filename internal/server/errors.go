package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/worksheet-gen/internal/ai"
	"github.com/p-n-ai/worksheet-gen/internal/authoring"
	"github.com/p-n-ai/worksheet-gen/internal/editor"
	"github.com/p-n-ai/worksheet-gen/internal/generator"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// requestError is a malformed request: bad JSON, a non-numeric index.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// classify maps an error to a status and a client-safe message.
func classify(err error) (int, errorResponse) {
	var (
		reqErr     *requestError
		indexErr   *worksheet.IndexError
		optsErr    *worksheet.OptionsError
		groupErr   *worksheet.GroupSizeError
		emptyErr   *generator.EmptyInputError
		unknownErr *generator.UnknownStandardError
		retryErr   *generator.GenerationRetryExhausted
		parseErr   *authoring.ParseError
		schemaErr  *authoring.ValidationError
	)

	switch {
	case errors.Is(err, worksheet.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "worksheet not found"}

	case errors.As(err, &reqErr),
		errors.As(err, &indexErr),
		errors.As(err, &optsErr),
		errors.As(err, &groupErr),
		errors.As(err, &emptyErr),
		errors.As(err, &unknownErr),
		errors.Is(err, worksheet.ErrNotRegenerable),
		errors.Is(err, editor.ErrNoPassage),
		errors.Is(err, editor.ErrNoIllustration),
		errors.Is(err, editor.ErrEmptyQuestion),
		errors.Is(err, authoring.ErrEmptyRequest):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}

	case errors.Is(err, editor.ErrNoAuthor):
		return http.StatusUnprocessableEntity, errorResponse{Error: "reading and language standards need an AI provider"}

	case errors.As(err, &retryErr):
		return http.StatusUnprocessableEntity, errorResponse{Error: "could not generate enough questions for these settings, please try again", Retryable: true}

	case errors.Is(err, authoring.ErrGenerationFailed),
		errors.Is(err, ai.ErrNoProviders),
		errors.Is(err, ai.ErrNoImage),
		errors.As(err, &parseErr),
		errors.As(err, &schemaErr):
		return http.StatusBadGateway, errorResponse{Error: "the AI service did not return a usable result, please try again", Retryable: true}

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorResponse{Error: "the request timed out, please try again", Retryable: true}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal error"}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	switch {
	case errors.Is(err, context.Canceled):
		slog.Debug("request canceled", "method", r.Method, "path", r.URL.Path)
	case status >= http.StatusInternalServerError:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	default:
		slog.Info("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}
