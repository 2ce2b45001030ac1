package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "medadmit/pkg/errors"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders err as {success:false, message, errors?, error?}.
// Internal details are only exposed outside production.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	body := envelope{"success": false}

	appErr, ok := apperrors.As(err)
	if !ok {
		body["message"] = "Internal server error"
		if !s.production {
			body["error"] = err.Error()
		}
		s.log.WithError(err).WithField("path", r.URL.Path).Error("Unhandled error")
		writeJSON(w, status, body)
		return
	}

	body["message"] = appErr.Message
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	switch {
	case appErr.Code == apperrors.ErrCodeConflict:
		body["error"] = appErr.Detail()
	case status >= http.StatusInternalServerError && !s.production:
		body["error"] = appErr.Detail()
	}
	writeJSON(w, status, body)
}

var errBadBody = apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body")

// decodeJSON reads one JSON document of at most maxBodyBytes into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.Wrap(apperrors.ErrCodeBadRequest, "Request body too large", err)
		}
		return errBadBody
	}
	if _, err := dec.Token(); err != io.EOF {
		return errBadBody
	}
	return nil
}
