// Package httputil centralizes JSON response writing so every handler emits
// the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "comptepro/pkg/domain-errors"
)

// MsgInternal is the generic message returned on 5xx responses. Internal
// detail is logged server-side, never sent to the client.
const MsgInternal = "Une erreur interne est survenue"

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response. Client-facing
// statuses (4xx) carry the domain message; 5xx responses carry a generic
// message so internal detail never leaks.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	msg := MsgInternal
	if status < http.StatusInternalServerError {
		msg = dErrors.MessageOf(err)
	}
	WriteJSON(w, status, map[string]string{"error": msg})
}
