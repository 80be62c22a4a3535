package session

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/kochabx/divina/core/validator"
	"github.com/kochabx/divina/errors"
	"github.com/kochabx/divina/log"
	"github.com/kochabx/divina/metrics"
)

// Gateway performs the auth calls of the machine.
type Gateway interface {
	SignIn(ctx context.Context, cred SignInCredential) (*TokenResponse, error)
	SignUp(ctx context.Context, cred SignUpCredential) (*TokenResponse, error)
	SignOut(ctx context.Context) error
	// Refresh must not run through the authenticated interceptors. Statuses
	// up to 500 are returned as a result; transport failures and larger
	// statuses as an error.
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResult, error)
}

// Navigator moves the user to a route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}

// Paths are the entry routes used after sign-in and sign-out.
type Paths struct {
	AuthenticatedEntry   string
	UnauthenticatedEntry string
}

var DefaultPaths = Paths{
	AuthenticatedEntry:   "/clientes",
	UnauthenticatedEntry: "/sign-in",
}

// Reason explains a transition to signed out.
type Reason string

const (
	ReasonSignOut       Reason = "sign-out"
	ReasonUnauthorized  Reason = "unauthorized"
	ReasonRefreshFailed Reason = "refresh-failed"
	ReasonMissingTokens Reason = "missing-tokens"
)

// EventKind identifies a machine transition.
type EventKind int

const (
	EventSignedIn EventKind = iota + 1
	EventRefreshed
	EventValidated
	EventSignedOut
	// EventReset asks the application to drop every piece of in-memory
	// state, cached API data included.
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventSignedIn:
		return "signed-in"
	case EventRefreshed:
		return "refreshed"
	case EventValidated:
		return "validated"
	case EventSignedOut:
		return "signed-out"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after a transition completes.
type Event struct {
	Kind    EventKind
	Reason  Reason
	Session Session
}

// Machine drives the session lifecycle: sign-in, scheduled refresh, and the
// terminal transitions. At most one refresh timer is armed at any time.
//
// mu guards the timer slot and its generation. It is never held across
// network calls, navigation, or listeners.
type Machine struct {
	store     *Store
	gateway   Gateway
	clock     clockwork.Clock
	navigator Navigator
	validate  validator.Validator
	logger    *log.Logger
	metrics   *metrics.Session
	paths     Paths

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	timer      clockwork.Timer
	generation uint64
	refreshing bool

	lmu       sync.RWMutex
	listeners map[uint64]func(Event)
	nextID    uint64
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

func WithClock(c clockwork.Clock) MachineOption {
	return func(m *Machine) {
		if c != nil {
			m.clock = c
		}
	}
}

func WithNavigator(n Navigator) MachineOption {
	return func(m *Machine) {
		if n != nil {
			m.navigator = n
		}
	}
}

func WithValidator(v validator.Validator) MachineOption {
	return func(m *Machine) {
		if v != nil {
			m.validate = v
		}
	}
}

func WithLogger(l *log.Logger) MachineOption {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithMetrics(s *metrics.Session) MachineOption {
	return func(m *Machine) {
		if s != nil {
			m.metrics = s
		}
	}
}

// WithPaths overrides the entry routes. Empty fields keep their defaults.
func WithPaths(p Paths) MachineOption {
	return func(m *Machine) {
		if p.AuthenticatedEntry != "" {
			m.paths.AuthenticatedEntry = p.AuthenticatedEntry
		}
		if p.UnauthenticatedEntry != "" {
			m.paths.UnauthenticatedEntry = p.UnauthenticatedEntry
		}
	}
}

// NewMachine creates a Machine over store and gateway.
func NewMachine(store *Store, gateway Gateway, opts ...MachineOption) *Machine {
	m := &Machine{
		store:     store,
		gateway:   gateway,
		clock:     clockwork.NewRealClock(),
		navigator: nopNavigator{},
		validate:  validator.Validate,
		logger:    log.G.Named("session"),
		paths:     DefaultPaths,
		listeners: make(map[uint64]func(Event)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = metrics.NewSession(nil)
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// Store returns the token store of m.
func (m *Machine) Store() *Store {
	return m.store
}

// Session returns the in-memory session.
func (m *Machine) Session() Session {
	return m.store.Snapshot()
}

// Authenticated reports whether a signed-in session with an access token is held.
func (m *Machine) Authenticated() bool {
	s := m.store.Snapshot()
	return s.SignedIn && s.AccessToken != ""
}

// IsPrivileged reports whether the session holds the top-level role.
func (m *Machine) IsPrivileged() bool {
	return m.store.Snapshot().IsPrivileged()
}

// Authorized reports whether the session may open a route restricted to authority.
func (m *Machine) Authorized(authority ...Role) bool {
	return m.store.Snapshot().Authorized(authority...)
}

// State returns the current machine state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.refreshing:
		return StateRefreshing
	case m.store.Snapshot().SignedIn:
		return StateSignedIn
	default:
		return StateSignedOut
	}
}

// SignIn validates cred, calls the API, stores the new session, arms the
// refresh timer, and navigates to redirect or the authenticated entry.
// Failures leave the session untouched.
func (m *Machine) SignIn(ctx context.Context, cred SignInCredential, redirect string) error {
	if err := m.validate.StructCtx(ctx, cred); err != nil {
		return errors.BadRequest("%s", err.Error()).WithCause(err)
	}
	tokens, err := m.gateway.SignIn(ctx, cred)
	if err != nil {
		m.logger.Debug().Err(err).Msg("sign in rejected")
		return errors.FromError(err)
	}
	return m.establish(ctx, tokens, redirect)
}

// SignUp is SignIn for a new account.
func (m *Machine) SignUp(ctx context.Context, cred SignUpCredential, redirect string) error {
	if err := m.validate.StructCtx(ctx, cred); err != nil {
		return errors.BadRequest("%s", err.Error()).WithCause(err)
	}
	tokens, err := m.gateway.SignUp(ctx, cred)
	if err != nil {
		m.logger.Debug().Err(err).Msg("sign up rejected")
		return errors.FromError(err)
	}
	return m.establish(ctx, tokens, redirect)
}

func (m *Machine) establish(ctx context.Context, tokens *TokenResponse, redirect string) error {
	if tokens == nil || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return errors.Internal("auth response carries no tokens")
	}
	sess := fromTokens(tokens)

	m.mu.Lock()
	m.stopLocked()
	m.store.stage(sess)
	m.armLocked(lifetime(tokens, m.clock.Now()))
	m.mu.Unlock()
	m.store.flush(ctx)

	m.emit(Event{Kind: EventSignedIn, Session: sess})
	if redirect == "" {
		redirect = m.paths.AuthenticatedEntry
	}
	m.navigator.Navigate(redirect)
	return nil
}

// SignOut notifies the API on a best effort basis, clears the session, and
// navigates to the unauthenticated entry. Repeated calls are harmless.
func (m *Machine) SignOut(ctx context.Context) {
	if m.Authenticated() {
		if err := m.gateway.SignOut(ctx); err != nil {
			m.logger.Warn().Err(err).Msg("sign out request failed")
		}
	}
	m.terminate(ctx, ReasonSignOut)
	m.navigator.Navigate(m.paths.UnauthenticatedEntry)
}

// HandleUnauthorized is the reaction to a 401 from the API: the session is
// cleared and the timer cancelled. It does not navigate.
func (m *Machine) HandleUnauthorized(ctx context.Context) {
	m.terminate(ctx, ReasonUnauthorized)
}

// Validated re-arms the timer from a successful auth/validate response.
// It is ignored while signed out.
func (m *Machine) Validated(ctx context.Context, resp ValidateResponse) {
	// settle the store before locking, Read may load durable storage
	m.store.Read(ctx)

	m.mu.Lock()
	sess := m.store.Snapshot()
	if !sess.Valid() {
		m.mu.Unlock()
		return
	}
	sess.ExpiresInSeconds = resp.ExpirationInSeconds
	if resp.Type != 0 {
		sess.AccountType = resp.Type
	}
	m.stopLocked()
	m.store.stage(sess)
	m.armLocked(lifetime(&TokenResponse{
		AccessToken:         sess.AccessToken,
		ExpirationInSeconds: resp.ExpirationInSeconds,
	}, m.clock.Now()))
	m.mu.Unlock()
	m.store.flush(ctx)

	m.emit(Event{Kind: EventValidated, Session: sess})
}

// Reset clears the session and asks subscribers to drop all in-memory state,
// then navigates to the unauthenticated entry.
func (m *Machine) Reset(ctx context.Context, reason Reason) {
	m.mu.Lock()
	m.stopLocked()
	m.store.stage(Session{})
	m.mu.Unlock()
	m.store.flush(ctx)
	m.finishReset(reason)
}

func (m *Machine) finishReset(reason Reason) {
	m.metrics.Resets.WithLabelValues(string(reason)).Inc()
	m.logger.Info().Str("reason", string(reason)).Msg("session reset")
	m.emit(Event{Kind: EventReset, Reason: reason})
	m.navigator.Navigate(m.paths.UnauthenticatedEntry)
}

func (m *Machine) terminate(ctx context.Context, reason Reason) {
	m.mu.Lock()
	changed := m.timer != nil || m.store.Snapshot().SignedIn
	m.stopLocked()
	m.store.stage(Session{})
	m.mu.Unlock()
	m.store.flush(ctx)

	if !changed {
		return
	}
	m.metrics.SignOuts.WithLabelValues(string(reason)).Inc()
	m.logger.Info().Str("reason", string(reason)).Msg("signed out")
	m.emit(Event{Kind: EventSignedOut, Reason: reason})
}

// Subscribe registers fn for every event. The returned func unregisters it.
func (m *Machine) Subscribe(fn func(Event)) func() {
	m.lmu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.lmu.Unlock()

	return func() {
		m.lmu.Lock()
		delete(m.listeners, id)
		m.lmu.Unlock()
	}
}

func (m *Machine) emit(ev Event) {
	m.lmu.RLock()
	fns := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.lmu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Close cancels the timer and any refresh in flight. The session is kept.
func (m *Machine) Close() error {
	m.mu.Lock()
	m.stopLocked()
	m.mu.Unlock()
	m.cancel()
	return nil
}
