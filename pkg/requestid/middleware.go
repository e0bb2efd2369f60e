package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header is the default request id header.
const Header = "X-Request-ID"

const maxIDLength = 128

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Option configures the middleware.
type Option func(*config)

type config struct {
	header   string
	generate func() string
	trust    bool
}

// WithHeader sets the header read from requests and echoed in responses.
func WithHeader(name string) Option {
	return func(c *config) {
		if name != "" {
			c.header = name
		}
	}
}

// WithGenerator replaces the id generator (time ordered UUIDs by default).
func WithGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.generate = fn
		}
	}
}

// WithTrustIncoming controls whether a valid client supplied id is reused.
// Enabled by default; disable it at the edge of untrusted networks.
func WithTrustIncoming(trust bool) Option {
	return func(c *config) { c.trust = trust }
}

// Middleware attaches a request id to the context and the response header.
// A client id is reused when trusted and made of at most 128 letters,
// digits, dashes and underscores; otherwise a new one is generated.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{header: Header, generate: newID, trust: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(cfg.header)
			if !cfg.trust || !isValid(id) {
				id = cfg.generate()
			}
			w.Header().Set(cfg.header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func isValid(id string) bool {
	return id != "" && len(id) <= maxIDLength && validID.MatchString(id)
}
