// =============================================================================
// CSV Cleaner - Web Handlers
// =============================================================================
//
// Request handlers for the upload form.
//
// UPLOAD FLOW (POST /clean):
//   1. Limit the body to server.max_upload_bytes and parse the form
//   2. Clean the "file" part into a temporary file under server.work_dir
//   3. Stream the cleaned file back as an attachment named <base>_cleaned.csv
//   4. Remove the temporary file
//
// =============================================================================

package web

import (
	"embed"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/ginjaninja78/csv-cleaner/internal/cleaner"
	"github.com/ginjaninja78/csv-cleaner/pkg/utils"
)

//go:embed templates
var templateFiles embed.FS

const (
	headerRowsIn      = "X-Rows-In"
	headerRowsOut     = "X-Rows-Out"
	headerRowsDropped = "X-Rows-Dropped"
)

// formData is rendered into templates/index.html.
type formData struct {
	MaxUploadMB int64
	NullTokens  []string
}

// handleForm renders the upload form.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := formData{
		MaxUploadMB: s.cfg.MaxUploadBytes >> 20,
		NullTokens:  cleaner.NullTokens(),
	}
	if err := s.form.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("failed to render form")
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleClean cleans an uploaded CSV file and returns the result as a
// download. The cleaned file only lives for the duration of the request.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			s.respondBadRequest(w, r, "file too large", "too_large")
			return
		}
		s.respondBadRequest(w, r, "invalid upload form", "invalid_form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondBadRequest(w, r, "no file provided", "missing_file")
		return
	}
	defer file.Close()

	if err := utils.EnsureDir(s.cfg.WorkDir); err != nil {
		s.respondError(w, r, err)
		return
	}
	dst := filepath.Join(s.cfg.WorkDir, utils.TempName("csvclean", ".csv"))
	defer os.Remove(dst)

	summary, err := s.cleaner.CleanReader(file, header.Filename, dst)
	s.metrics.RecordRun("web", summary, err, time.Since(start))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out, err := os.Open(dst)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer out.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": utils.CleanedFileName(header.Filename),
	}))
	w.Header().Set(headerRowsIn, strconv.Itoa(summary.InputRows))
	w.Header().Set(headerRowsOut, strconv.Itoa(summary.OutputRows))
	w.Header().Set(headerRowsDropped, strconv.Itoa(summary.DroppedRows))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, out); err != nil {
		s.logger.Warn().Err(err).Msg("failed to send cleaned file")
	}
}
