// =============================================================================
// CSV Cleaner - Web Error Responses
// =============================================================================
//
// Maps cleaning failures to HTTP responses.
//
// STATUS CODES:
//   - *cleaner.ParseError -> 422 with the parser message (line and column)
//   - *cleaner.IOError    -> 500 with a generic message; details are logged
//   - bad upload form     -> 400
//   - anything else       -> 500
//
// Responses are JSON when the client asks for it and plain text otherwise.
//
// =============================================================================

package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/ginjaninja78/csv-cleaner/internal/cleaner"
)

// ErrorResponse is the JSON body of an error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// respondError logs err and writes the matching error response.
//
// PARAMETERS:
//   - err: The failure. *cleaner.ParseError becomes 422, anything else 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: "failed to clean file", Code: "internal"}

	var parseErr *cleaner.ParseError
	switch {
	case errors.As(err, &parseErr):
		status = http.StatusUnprocessableEntity
		resp = ErrorResponse{
			Error:  parseErr.Error(),
			Code:   "parse_error",
			Line:   parseErr.Line,
			Column: parseErr.Column,
		}
	case errors.Is(err, cleaner.ErrIO):
		resp.Code = "io_error"
	}

	s.logger.Error().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Str("code", resp.Code).
		Msg("request error")

	write(w, r, status, resp)
}

// respondBadRequest writes a 400 response.
func (s *Server) respondBadRequest(w http.ResponseWriter, r *http.Request, message, code string) {
	s.logger.Warn().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("code", code).
		Msg(message)

	write(w, r, http.StatusBadRequest, ErrorResponse{Error: message, Code: code})
}

func write(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	if wantsJSON(r) {
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}
	http.Error(w, resp.Error, status)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
