package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
)

type errorResponse struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	requestID := requestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		slog.Error("http_handler_failed",
			"request_id", requestID,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string, details ...string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:     message,
		Details:   details,
		RequestID: requestIDFromContext(r.Context()),
	})
}

func writeNotImplemented(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, errorResponse{
		Error:     "endpoint is not enabled",
		RequestID: requestIDFromContext(r.Context()),
	})
}

// decodeJSON reads a bounded JSON body into dst and validates its tags.
// It writes the error response itself and reports whether decoding succeeded.
func (rt *Router) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, err)
			return false
		}
		writeBadRequest(w, r, "invalid json")
		return false
	}
	if err := rt.validate.Struct(dst); err != nil {
		writeBadRequest(w, r, "validation failed", validationDetails(err)...)
		return false
	}
	return true
}

func validationDetails(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			details = append(details, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		details = append(details, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return details
}

// readUpload parses a multipart upload with the "file" field. The returned
// closer must be called once the upload has been consumed.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) (ports.Upload, io.Closer, bool) {
	if r.ContentLength > rt.maxUploadBytes {
		writeError(w, r, &http.MaxBytesError{Limit: rt.maxUploadBytes})
		return ports.Upload{}, nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, err)
			return ports.Upload{}, nil, false
		}
		writeBadRequest(w, r, "multipart field 'file' is required")
		return ports.Upload{}, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, r, "multipart field 'file' is required")
		return ports.Upload{}, nil, false
	}

	caseID := strings.TrimSpace(r.FormValue("case_id"))
	if caseID != "" {
		if err := rt.validate.Var(caseID, "max=128,printascii"); err != nil {
			_ = file.Close()
			writeBadRequest(w, r, "invalid case_id")
			return ports.Upload{}, nil, false
		}
	}

	return ports.Upload{
		CaseID:   caseID,
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Body:     file,
	}, uploadCloser{file: file, form: r.MultipartForm}, true
}

type uploadCloser struct {
	file multipart.File
	form *multipart.Form
}

func (c uploadCloser) Close() error {
	err := c.file.Close()
	if c.form != nil {
		_ = c.form.RemoveAll()
	}
	return err
}

func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "path", errors.New("id is required"))
	}
	return id, nil
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
