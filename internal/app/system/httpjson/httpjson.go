// Package httpjson holds the JSON request/response helpers shared by all
// feature handlers, including the mapping from lifecycle engine errors to
// HTTP status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Write encodes v as the response body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a {"error": msg} body with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// Decode reads a JSON request body into v. Returns false after writing a
// 400 response when the body is malformed.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// EngineError maps lifecycle engine errors onto HTTP statuses:
// validation 400, unauthorized 403, not found 404, bad transition 409.
// Anything else is a 500 and gets logged.
func EngineError(w http.ResponseWriter, log *zap.Logger, err error) {
	var (
		vErr  *lifecycle.ValidationError
		uErr  *lifecycle.UnauthorizedError
		nfErr *lifecycle.NotFoundError
		itErr *lifecycle.InvalidTransitionError
	)
	switch {
	case errors.As(err, &vErr):
		Error(w, http.StatusBadRequest, vErr.Msg)
	case errors.As(err, &uErr):
		Error(w, http.StatusForbidden, uErr.Msg)
	case errors.As(err, &nfErr):
		Error(w, http.StatusNotFound, nfErr.Error())
	case errors.As(err, &itErr):
		Error(w, http.StatusConflict, itErr.Error())
	default:
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
