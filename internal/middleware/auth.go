package middleware

import (
	"maps"
	"net/http"
)

// TokenSource supplies the current API token. The phpIPAM token is only
// known after POST /user/ succeeds, so the value is resolved per request
// rather than captured at middleware construction time.
type TokenSource func() string

// TokenAuth returns a middleware that adds the phpIPAM "token" header to all
// requests. Requests issued before login (the login POST itself, or clients
// constructed with SkipLogin and no injected token) go out without the
// header: the source returns an empty string and the header is omitted.
func TokenAuth(headerName string, source TokenSource) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return &tokenAuthTransport{
			next:       next,
			headerName: headerName,
			source:     source,
		}
	}
}

type tokenAuthTransport struct {
	next       http.RoundTripper
	headerName string
	source     TokenSource
}

func (t *tokenAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.source()
	if token == "" {
		//nolint:wrapcheck // Middleware passes through errors from next handler in chain
		return t.next.RoundTrip(req)
	}

	// Clone request to avoid modifying original
	req = cloneRequest(req)
	req.Header.Set(t.headerName, token)

	//nolint:wrapcheck // Middleware passes through errors from next handler in chain
	return t.next.RoundTrip(req)
}

// cloneRequest creates a shallow copy of the request with a cloned header map.
func cloneRequest(req *http.Request) *http.Request {
	r := new(http.Request)
	*r = *req
	r.Header = make(http.Header, len(req.Header))
	maps.Copy(r.Header, req.Header)
	return r
}
