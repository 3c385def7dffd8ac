package respond

import (
	"encoding/json"
	"net/http"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/logger"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Data writes a success envelope with a payload.
func Data(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, envelope{Success: true, Data: data})
}

// List writes a success envelope with a payload and an item count.
func List(w http.ResponseWriter, status int, count int, data interface{}) {
	write(w, status, envelope{Success: true, Count: &count, Data: data})
}

// Message writes a success envelope with just a message.
func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: true, Message: message})
}

// Error logs err and writes a failure envelope with the mapped status.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).WithError(err).Error("request failed")
	} else {
		logger.FromContext(r.Context()).WithError(err).Debug("request rejected")
	}
	write(w, status, envelope{Success: false, Message: apperror.Message(err)})
}
