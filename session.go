package phpipam

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nwkauto/go-phpipam/internal/httpclient"
	"github.com/nwkauto/go-phpipam/observability"
)

// session wraps the two transport endpoints against the same phpIPAM host:
// the API-prefixed endpoint {host}/api/{app} used for token-authenticated
// REST calls, and the raw web-UI endpoint used only for the HTML search
// tool and its login form. It owns the API token and, through the web
// client's cookie jar, the web session's cookies.
type session struct {
	host   string // no trailing slash
	app    string
	apiURL string // host + "/api/" + app

	api *httpclient.Client
	web *httpclient.Client

	token string

	logger  observability.Logger
	metrics observability.MetricsRecorder
}

// RequestOptions shapes one request issued through a controller or the
// session. All fields are optional.
type RequestOptions struct {
	// Query is appended to the request URL.
	Query url.Values

	// JSON is marshaled as the request body with a JSON content type.
	JSON any

	// Form is encoded as the request body with a form content type.
	// JSON takes precedence when both are set.
	Form url.Values
}

// apiDo issues one request against the API endpoint. path must start with
// "/". The edit hook, when non-nil, runs after the request is built and
// before it is sent (used for basic auth on login).
func (s *session) apiDo(ctx context.Context, verb, path string, opts *RequestOptions, edit func(*http.Request)) (*Response, error) {
	return s.do(ctx, s.api, verb, s.apiURL+path, opts, edit)
}

// webDo issues one request against the web-UI endpoint.
func (s *session) webDo(ctx context.Context, verb, path string, opts *RequestOptions, edit func(*http.Request)) (*Response, error) {
	return s.do(ctx, s.web, verb, s.host+path, opts, edit)
}

func (s *session) do(ctx context.Context, client *httpclient.Client, verb, rawURL string, opts *RequestOptions, edit func(*http.Request)) (*Response, error) {
	var body io.Reader
	contentType := ""

	if opts != nil {
		switch {
		case opts.JSON != nil:
			encoded, err := json.Marshal(opts.JSON)
			if err != nil {
				return nil, errors.Wrap(err, "encoding request body")
			}
			body = bytes.NewReader(encoded)
			contentType = "application/json"
		case opts.Form != nil:
			body = strings.NewReader(opts.Form.Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	}

	req, err := http.NewRequestWithContext(ctx, verb, rawURL, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s request", verb, rawURL)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if opts != nil && opts.Query != nil {
		req.URL.RawQuery = opts.Query.Encode()
	}
	if edit != nil {
		edit(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s failed", verb, rawURL)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s %s response", verb, rawURL)
	}

	return &Response{
		Method:     verb,
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}
