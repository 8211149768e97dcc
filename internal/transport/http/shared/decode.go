package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hreval/internal/transport/http/api"
)

// DecodeJSON reads a single JSON object into dst. Unknown fields are
// rejected. On failure it writes a 400 (or 413) envelope and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil {
		if dec.Decode(&struct{}{}) != io.EOF {
			err = errors.New("request body must contain a single JSON object")
		}
	}
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
		return false
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		FailValidation(w, requestID, []ValidationIssue{{Field: typeErr.Field, Reason: fmt.Sprintf("must be a %s", typeErr.Type.String())}})
		return false
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
	return false
}
