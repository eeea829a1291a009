package phpipam

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/nwkauto/go-phpipam/internal/httpclient"
	"github.com/nwkauto/go-phpipam/internal/middleware"
	"github.com/nwkauto/go-phpipam/internal/ratelimit"
	"github.com/nwkauto/go-phpipam/observability"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// tokenHeader is the phpIPAM API authentication header.
const tokenHeader = "token"

// Config holds configuration for the phpIPAM client.
type Config struct {
	// Host is the phpIPAM server URL, for example "https://ipam.example.com:8080".
	Host string

	// App is the API application name. An API app must be defined in the
	// phpIPAM Administration/API panel before the API can be used.
	App string

	// User is the login user name.
	User string

	// Password is the login password.
	Password string

	// SkipLogin disables the login performed at construction. The client is
	// then only usable after a token is injected with SetToken, and the
	// web-UI search tool stays unauthorized.
	SkipLogin bool

	// HTTPClient supplies a custom transport and timeout. Optional; its
	// Transport and Timeout are borrowed, the client itself is not mutated.
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout. All network calls also honor
	// the caller's context; no further timeout policy is imposed.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification (useful for
	// self-signed certs on lab instances).
	InsecureSkipVerify bool

	// RateLimitPerMinute caps outgoing requests per minute. Zero disables
	// client-side rate limiting.
	RateLimitPerMinute int

	// Logger receives structured logs. Defaults to a no-op logger.
	Logger observability.Logger

	// Metrics receives client metrics. Defaults to a no-op recorder.
	Metrics observability.MetricsRecorder
}

// Client is a phpIPAM API client. It exposes the open-ended controller
// space through Controller and the web-UI search tool through Search.
//
// A Client owns mutable state (token, web cookies, controller caches) and
// is not safe for concurrent use from multiple goroutines.
type Client struct {
	session     *session
	controllers map[string]*Controller
}

// New creates a client and logs in with the given credentials.
func New(ctx context.Context, host, user, password, app string) (*Client, error) {
	return NewWithConfig(ctx, &Config{
		Host:     host,
		User:     user,
		Password: password,
		App:      app,
	})
}

// NewWithConfig creates a client with custom configuration. Unless
// cfg.SkipLogin is set, it performs both login flows before returning.
func NewWithConfig(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}
	if cfg.App == "" {
		return nil, errors.New("app name is required")
	}
	if !cfg.SkipLogin && (cfg.User == "" || cfg.Password == "") {
		return nil, errors.New("user and password are required unless SkipLogin is set")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NoopLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NoopMetricsRecorder()
	}

	host := strings.TrimRight(cfg.Host, "/")

	s := &session{
		host:    host,
		app:     cfg.App,
		apiURL:  host + "/api/" + cfg.App,
		logger:  logger,
		metrics: metrics,
	}

	// Shared middleware: logging/metrics outermost, then request tagging,
	// then the optional rate limit budget.
	shared := []httpclient.Middleware{
		middleware.Observability(logger, metrics),
		middleware.RequestID(),
	}
	if cfg.RateLimitPerMinute > 0 {
		shared = append(shared, middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: ratelimit.NewRateLimiter(cfg.RateLimitPerMinute),
			Logger:  logger,
			Metrics: metrics,
		}))
	}

	apiMiddleware := make([]httpclient.Middleware, 0, len(shared)+1)
	apiMiddleware = append(apiMiddleware, shared...)
	apiMiddleware = append(apiMiddleware, middleware.TokenAuth(tokenHeader, func() string { return s.token }))

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}

	s.api = httpclient.New(
		httpclient.WithHTTPClient(baseHTTPClient(cfg, nil)),
		httpclient.WithMiddleware(apiMiddleware...),
	)
	s.web = httpclient.New(
		httpclient.WithHTTPClient(baseHTTPClient(cfg, jar)),
		httpclient.WithMiddleware(shared...),
	)

	client := &Client{
		session:     s,
		controllers: make(map[string]*Controller),
	}

	if !cfg.SkipLogin {
		if err := client.Login(ctx, cfg.User, cfg.Password); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// baseHTTPClient builds the underlying http.Client for one endpoint,
// borrowing transport and timeout from cfg.HTTPClient when provided.
func baseHTTPClient(cfg *Config, jar http.CookieJar) *http.Client {
	hc := &http.Client{
		Timeout: cfg.Timeout,
		Jar:     jar,
	}

	if cfg.HTTPClient != nil {
		hc.Transport = cfg.HTTPClient.Transport
		if cfg.HTTPClient.Timeout > 0 {
			hc.Timeout = cfg.HTTPClient.Timeout
		}
		return hc
	}

	if cfg.InsecureSkipVerify {
		hc.Transport = middleware.TLSConfig(middleware.InsecureSkipVerify())(http.DefaultTransport)
	}

	return hc
}

// Login performs the two authentication flows against the same credentials:
// the API token exchange (POST {api}/user/ with basic auth, reading
// data.token) and the web-UI form login that establishes the session
// cookies used by the search tool. Either flow returning a non-success
// status aborts with an *APIError; nothing is retried.
func (c *Client) Login(ctx context.Context, user, password string) error {
	s := c.session

	res, err := s.apiDo(ctx, http.MethodPost, "/user/", nil, func(req *http.Request) {
		req.SetBasicAuth(user, password)
	})
	if err != nil {
		return err
	}
	if err := res.StatusErr(); err != nil {
		return errors.Wrap(err, "api login failed")
	}

	var auth struct {
		Token string `json:"token"`
	}
	if err := res.DecodeData(&auth); err != nil {
		return err
	}
	if auth.Token == "" {
		return errors.New("login response carried no token")
	}
	s.token = auth.Token

	// The web UI has to be logged into separately: the search tool is not
	// part of the API, and its endpoint is authorized by session cookies
	// only. The login-check endpoint returns no JSON contract; success is
	// inferred from the status alone.
	form := url.Values{
		"ipamusername": {user},
		"ipampassword": {password},
	}
	webRes, err := s.webDo(ctx, http.MethodPost, "/app/login/login_check.php", &RequestOptions{Form: form}, nil)
	if err != nil {
		return err
	}
	if err := webRes.StatusErr(); err != nil {
		return errors.Wrap(err, "web-ui login failed")
	}

	s.logger.Info("logged in",
		observability.Field{Key: "host", Value: s.host},
		observability.Field{Key: "app", Value: s.app},
		observability.Field{Key: "user", Value: user},
	)

	return nil
}

// Controller returns the root-level controller for name, for example
// "devices" or "subnets". Controllers are memoized: repeated access
// returns the identical instance.
func (c *Client) Controller(name string) *Controller {
	name = strings.Trim(name, "/")

	if ctrl, ok := c.controllers[name]; ok {
		return ctrl
	}

	ctrl := newController(c.session, "/"+name+"/")
	c.controllers[name] = ctrl
	return ctrl
}

// SetToken injects an API token directly. Intended for clients constructed
// with SkipLogin; the web-UI search tool remains unauthorized without a
// full Login.
func (c *Client) SetToken(token string) {
	c.session.token = token
}

// Token returns the current API token, empty before login.
func (c *Client) Token() string {
	return c.session.token
}
