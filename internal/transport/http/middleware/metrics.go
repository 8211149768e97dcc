package middleware

import (
	"net/http"
	"time"
)

type MetricsRecorder interface {
	Record(method string, status int, duration time.Duration)
}

func Metrics(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			recorder.Record(r.Method, rec.status, time.Since(start))
		})
	}
}
