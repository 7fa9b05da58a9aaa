package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON response. The payload is marshalled before the
// status line goes out, so an encoding failure still yields a well-formed
// error body instead of a 200 with half a document.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.WriteHeader(status)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// NoContent acks a command that has no response payload
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
