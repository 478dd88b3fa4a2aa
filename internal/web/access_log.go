package web

import (
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += int64(n)
	return n, err
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// WithAccessLog logs one line per request once the response is written.
func WithAccessLog(logger Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = noopLogger{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				logger.Errorf("http", "%s %s %s %d %dB %s", r.RemoteAddr, r.Method, r.URL.RequestURI(), status, rec.bytes, time.Since(start))
				return
			}
			logger.Infof("http", "%s %s %s %d %dB %s", r.RemoteAddr, r.Method, r.URL.RequestURI(), status, rec.bytes, time.Since(start))
		})
	}
}
