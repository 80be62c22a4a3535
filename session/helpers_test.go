package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kochabx/divina/errors"
)

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}

var signInTokens = &TokenResponse{
	AccessToken:         "A1",
	RefreshToken:        "R1",
	ExpirationInSeconds: 3600,
	Type:                1,
	Rol:                 RoleManager,
	Sede:                1,
}

type fakeGateway struct {
	mu           sync.Mutex
	signIns      int
	signOuts     int
	refreshes    []RefreshRequest
	refreshWith  func(RefreshRequest) (*RefreshResult, error)
	signInTokens *TokenResponse
	signInErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{signInTokens: signInTokens}
}

func (g *fakeGateway) SignIn(_ context.Context, cred SignInCredential) (*TokenResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signIns++
	if g.signInErr != nil {
		return nil, g.signInErr
	}
	if cred.Username != "admin@divinalaser.com" || cred.Password != "12345678" {
		return nil, errors.Unauthorized("Credenciales inválidas")
	}
	return g.signInTokens, nil
}

func (g *fakeGateway) SignUp(_ context.Context, cred SignUpCredential) (*TokenResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &TokenResponse{AccessToken: "N1", RefreshToken: "NR1", ExpirationInSeconds: 60, Rol: RoleSpecialist}, nil
}

func (g *fakeGateway) SignOut(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signOuts++
	return errors.ServiceUnavailable("down")
}

func (g *fakeGateway) Refresh(_ context.Context, req RefreshRequest) (*RefreshResult, error) {
	g.mu.Lock()
	g.refreshes = append(g.refreshes, req)
	fn := g.refreshWith
	g.mu.Unlock()
	if fn == nil {
		return &RefreshResult{StatusCode: 200, Tokens: &TokenResponse{
			AccessToken: "A2", RefreshToken: "R2", ExpirationInSeconds: 3600, Rol: RoleManager, Sede: 1,
		}}, nil
	}
	return fn(req)
}

func (g *fakeGateway) refreshCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refreshes)
}

type recorder struct {
	mu     sync.Mutex
	paths  []string
	events []Event
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) lastPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}

// gatedPersister blocks the named operation ("save" or "delete") until
// release is closed. entered is closed on the first blocked call.
type gatedPersister struct {
	*MemoryPersister
	op      string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedPersister(op string) *gatedPersister {
	return &gatedPersister{
		MemoryPersister: NewMemoryPersister(),
		op:              op,
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
}

func (p *gatedPersister) wait(op string) {
	if op != p.op {
		return
	}
	p.once.Do(func() { close(p.entered) })
	<-p.release
}

func (p *gatedPersister) Save(ctx context.Context, key string, data []byte) error {
	p.wait("save")
	return p.MemoryPersister.Save(ctx, key, data)
}

func (p *gatedPersister) Delete(ctx context.Context, key string) error {
	p.wait("delete")
	return p.MemoryPersister.Delete(ctx, key)
}
