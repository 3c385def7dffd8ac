package logger

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type contextKeyType struct{}

var contextKey = contextKeyType{}

// Init sets up the process-wide log format and level.
func Init(level logrus.Level) {
	formatter := new(logrus.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	logrus.SetFormatter(formatter)
	logrus.SetLevel(level)
}

// Default returns a plain entry without request context.
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// FromContext returns the request-scoped entry, or the default entry when the
// context carries none.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(contextKey).(*logrus.Entry); ok {
			return entry
		}
	}
	return Default()
}

// Middleware stores a request-scoped entry carrying the chi request ID, so
// handlers and services can correlate log lines per request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := logrus.WithField("requestID", middleware.GetReqID(r.Context()))
		ctx := context.WithValue(r.Context(), contextKey, entry)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
