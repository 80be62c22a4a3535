package api

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kochabx/divina/log"
	"github.com/kochabx/divina/session"
)

type options struct {
	persister  session.Persister
	persistKey string
	clock      clockwork.Clock
	navigator  session.Navigator
	httpClient *http.Client
	timeout    time.Duration
	logger     *log.Logger
	registerer prometheus.Registerer
	paths      session.Paths
	keepUnused time.Duration
	workers    int
}

// Option configures a Client.
type Option func(*options)

// WithPersister sets the durable storage of the session. The default keeps
// it in memory.
func WithPersister(p session.Persister) Option {
	return func(o *options) { o.persister = p }
}

func WithPersistKey(key string) Option {
	return func(o *options) { o.persistKey = key }
}

// WithClock sets the clock of the refresh timer and the cache GC.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithNavigator(n session.Navigator) Option {
	return func(o *options) { o.navigator = n }
}

// WithHTTPClient sets the underlying http.Client of both the authenticated
// and the refresh client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegisterer registers the session and cache collectors into r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

func WithPaths(p session.Paths) Option {
	return func(o *options) { o.paths = p }
}

func WithKeepUnusedDataFor(d time.Duration) Option {
	return func(o *options) { o.keepUnused = d }
}

func WithRefetchWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}
