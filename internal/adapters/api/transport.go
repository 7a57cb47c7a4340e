package api

import (
	"net/http"
	"time"

	"github.com/PabloGalante/diario/internal/observability"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// withBearerToken attaches the backend token to every request. An empty
// token leaves requests untouched.
func withBearerToken(token string) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if token != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+token)
			}
			return next.RoundTrip(r)
		})
	}
}

// withLogging wraps a round tripper and logs every request.
func withLogging(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()

		resp, err := next.RoundTrip(r)

		log := observability.LoggerFromContext(r.Context()).With(
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
		if err != nil {
			log.Error("request failed", "error", err)
			return resp, err
		}
		log.Info("request completed", "status", resp.StatusCode)
		return resp, nil
	})
}

// chainRoundTrippers applies multiple wrappers in order.
func chainRoundTrippers(rt http.RoundTripper, wrappers ...func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	for _, w := range wrappers {
		rt = w(rt)
	}
	return rt
}
