package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/motamman/signalk-units-preference-sub000/errors"
)

// writeJSON renders a 2xx JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encode failed", "error", err)
	}
}

// writeError renders the error envelope {error, status}.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]any{
		"error":  message,
		"status": status,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("error response encode failed", "error", err)
	}
}

// writeTypedError maps a core error to its status code and renders it. Typed
// conversion errors carry user-addressable messages and are passed through;
// anything unclassified is sanitized to a generic 500.
func (s *Server) writeTypedError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		s.writeError(w, status, "internal server error")
		return
	}
	s.writeError(w, status, err.Error())
}

// statusFor maps the conversion error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case stderrors.Is(err, errors.ErrConversionNotFound):
		return http.StatusNotFound
	case errors.Classify(err) == errors.ErrorInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody unmarshals a JSON request body into v.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// requireQuery fetches a mandatory query parameter.
func (s *Server) requireQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter: "+name)
		return "", false
	}
	return v, true
}
