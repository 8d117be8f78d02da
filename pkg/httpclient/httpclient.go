// Package httpclient provides composable http.RoundTripper middleware for
// outbound API calls: request identification, request logging, and static
// header injection.
package httpclient

import "net/http"

// Middleware wraps an http.RoundTripper with additional behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripFunc adapts a plain function to the http.RoundTripper interface.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Wrap applies middlewares to base so that the first middleware in the list
// is the outermost (sees the request first). A nil base defaults to
// http.DefaultTransport.
func Wrap(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// UserAgent returns a middleware that sets the User-Agent header on every
// outgoing request, unless the request already carries one.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("User-Agent") == "" {
				r = cloneRequest(r)
				r.Header.Set("User-Agent", ua)
			}
			return next.RoundTrip(r)
		})
	}
}

// cloneRequest returns a shallow copy of r with a deep copy of its headers.
// RoundTrippers must not modify the caller's request.
func cloneRequest(r *http.Request) *http.Request {
	clone := r.Clone(r.Context())
	return clone
}
