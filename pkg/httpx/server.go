package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/ghuser/clickcollect/pkg/config"
)

// Options tunes the router built by NewRouter. Zero values take the
// defaults below.
type Options struct {
	Development bool
	// CORSAllowedOrigins is comma-separated; "*" allows every origin.
	CORSAllowedOrigins string
	RequestsPerMinute  int
	MaxBodyBytes       int64
	HandlerTimeout     time.Duration
}

const (
	defaultRequestsPerMinute = 100
	defaultMaxBodyBytes      = 1 << 20
	defaultHandlerTimeout    = 30 * time.Second
)

// OptionsFromConfig derives router options from the process config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Development:        cfg.Environment == config.EnvDevelopment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
}

func (o Options) withDefaults() Options {
	if o.RequestsPerMinute <= 0 {
		o.RequestsPerMinute = defaultRequestsPerMinute
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	if o.HandlerTimeout <= 0 {
		o.HandlerTimeout = defaultHandlerTimeout
	}
	return o
}

// NewRouter returns a chi router with the shared middleware chain. The
// outer middlewares (recovery, sentry, tracing, request logging) run first,
// in the order given, with the request id assigned before them. The
// chain then applies real-ip, per-IP rate limiting, CORS, the body cap,
// the handler timeout and the security headers.
func NewRouter(opts Options, outer ...func(http.Handler) http.Handler) *chi.Mux {
	opts = opts.withDefaults()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(outer...)
	r.Use(
		middleware.RealIP,
		RateLimit(opts.RequestsPerMinute),
		CORSMiddleware(opts.CORSAllowedOrigins),
		RequestBodyLimit(opts.MaxBodyBytes),
		middleware.Timeout(opts.HandlerTimeout),
		SecurityHeaders(opts.Development),
	)
	return r
}

// RateLimit allows perMinute requests per client IP and answers the excess
// with a JSON 429.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			JSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}),
	)
}

// SecurityHeaders sets HSTS, frame, sniffing, referrer and content
// policies. HSTS is skipped in development and on plain HTTP.
func SecurityHeaders(development bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=()",
		IsDevelopment:         development,
	}).Handler
}

// CORSMiddleware allows the given comma-separated origins. Credentials
// (the identity cookie) are only allowed with an explicit origin list.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(allowedOrigins),
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: allowedOrigins != "*",
		MaxAge:           300,
	})
}

func splitOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit caps request bodies at maxBytes. Reads past the cap fail,
// which the JSON decoder reports as invalid input.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server with read, write and idle timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
