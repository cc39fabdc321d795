package webutil

import (
	"errors"
	"log/slog"
	"net/http"
)

// AppHandler is a handler function that returns an error instead of
// writing failure responses itself.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc
// signature. A returned *HTTPError becomes a JSON error response with its
// code; anything else is logged and collapsed to a 500 so internal store
// failures never silently succeed or leak detail.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			// The handler wrote its own successful response.
			return
		}

		statusCode := http.StatusInternalServerError
		publicMessage := msgInternalServer

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			statusCode = httpErr.Code
			publicMessage = httpErr.Message

			logLevel := slog.LevelWarn // client errors are warnings server-side
			if statusCode >= 500 {
				logLevel = slog.LevelError
			}
			attrs := []any{
				"code", statusCode,
				"msg", publicMessage,
				"path", r.URL.Path,
				"method", r.Method,
			}
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != publicMessage {
				attrs = append(attrs, "cause", cause)
			}
			slog.Log(r.Context(), logLevel, "Client error response", attrs...)
		} else {
			slog.Error("Unhandled internal error",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err,
			)
		}

		RespondWithJSON(w, statusCode, map[string]string{"error": publicMessage})
	}
}
