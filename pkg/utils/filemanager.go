// =============================================================================
// CSV Cleaner - File Utilities
// =============================================================================
//
// This module provides the file handling shared by the cleaner, the profile
// report and the web form:
//   - All-or-nothing file writes (temp file, fsync, rename)
//   - Unique temp names
//   - Output file naming
//   - Same-file detection and small helpers
//
// ATOMIC WRITE STRATEGY:
//   - The temp file is created next to the destination so the final rename
//     never crosses a filesystem
//   - The destination only appears once the content is fully synced
//   - On any failure the temp file is removed and the destination is untouched
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes a file by streaming into a temp file in the same
// directory and renaming it over path once write has succeeded.
//
// PARAMETERS:
//   - path: The destination. An existing file is replaced.
//   - write: Produces the content. Its writer is buffered.
//
// RETURNS:
//   - An error if the temp file cannot be created, write fails, or the content
//     cannot be synced or moved into place. No file is left behind in that case.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, TempName("."+filepath.Base(path), ".tmp"))

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	// Every failure below removes the temp file.
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			file.Close()
		}
		os.Remove(tmpPath)
	}()

	buffered := bufio.NewWriter(file)
	if err = write(buffered); err != nil {
		return err
	}
	if err = buffered.Flush(); err != nil {
		return fmt.Errorf("failed to flush temp file: %w", err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	closed = true
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// TempName returns prefix + "-" + a random UUID + ext.
func TempName(prefix, ext string) string {
	return prefix + "-" + uuid.New().String() + ext
}

// GenerateOutputFileName expands a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {original}  - Original file name (without extension)
//   - params: Extra placeholder values, keyed without braces.
//   - ext: The extension the result must end with (e.g. ".csv").
//
// EXAMPLE:
//
//	format: "{original}_cleaned"
//	params: {"original": "customers"}
//	ext:    ".csv"
//	output: "customers_cleaned.csv"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// CleanedFileName returns "<name>_cleaned.csv" for an uploaded or source file.
// Directory components are discarded. An empty name becomes "upload".
func CleanedFileName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}
	return GenerateOutputFileName("{original}_cleaned", map[string]string{"original": base}, ".csv")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// SameFile reports whether a and b name the same file, either by path or, when
// both exist, by identity (hard links, symlinks).
func SameFile(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB {
		return true, nil
	}

	infoA, err := os.Stat(a)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return os.SameFile(infoA, infoB), nil
}
