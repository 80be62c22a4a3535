package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoles(t *testing.T) {
	s := Session{SignedIn: true, AccessToken: "A1", RefreshToken: "R1", Role: RoleManager}
	assert.True(t, s.Valid())
	assert.True(t, s.IsPrivileged())
	assert.True(t, s.Authorized())
	assert.True(t, s.Authorized(RoleManager, RoleAdministrator))
	assert.False(t, s.Authorized(RoleSpecialist))

	s.Role = RoleSpecialist
	assert.False(t, s.IsPrivileged())
	assert.False(t, Session{}.Authorized())
	assert.Equal(t, "gerente", RoleManager.String())
	assert.Equal(t, time.Hour, Session{ExpiresInSeconds: 3600}.ExpiresIn())
}

func TestCodecRoundTrip(t *testing.T) {
	in := Session{
		SignedIn:         true,
		AccessToken:      "A1",
		RefreshToken:     "R1",
		ExpiresInSeconds: 3600,
		AccountType:      1,
		Role:             RoleManager,
		LocationID:       1,
	}
	data, err := Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"auth":{"session":{"signedIn":true,"token":"A1","refreshToken":"R1",
		"expirationInSeconds":3600,"type":1,"rol":1,"sede":1}}}`, string(data))

	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCodecEmptySession(t *testing.T) {
	data, err := Marshal(Session{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"token":null`)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, Session{}, out)
}

func TestCodecNestedStrings(t *testing.T) {
	data := []byte(`{"auth":"{\"session\":{\"signedIn\":true,\"token\":\"A1\",\"refreshToken\":\"R1\",\"rol\":2,\"sede\":3}}"}`)
	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "A1", out.AccessToken)
	assert.Equal(t, RoleAdministrator, out.Role)
	assert.Equal(t, 3, out.LocationID)
}

func TestCodecSignedInWithoutTokens(t *testing.T) {
	out, err := Unmarshal([]byte(`{"auth":{"session":{"signedIn":true,"token":"A1","refreshToken":null}}}`))
	require.NoError(t, err)
	assert.False(t, out.SignedIn)
}

func TestCodecGarbage(t *testing.T) {
	_, err := Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}

func TestTokenStatus(t *testing.T) {
	var r ValidateResponse
	require.NoError(t, jsonUnmarshal(`{"status":"valid","expirationInSeconds":60}`, &r))
	assert.Equal(t, TokenStatus("valid"), r.Status)
	require.NoError(t, jsonUnmarshal(`{"status":1,"expirationInSeconds":60}`, &r))
	assert.Equal(t, TokenStatus("1"), r.Status)
	assert.Equal(t, 60, r.ExpirationInSeconds)
}

func TestParseClaims(t *testing.T) {
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute))},
		Rol:              RoleManager,
		Sede:             4,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, RoleManager, claims.Rol)
	assert.Equal(t, 4, claims.Sede)

	d := lifetime(&TokenResponse{AccessToken: token}, now)
	assert.InDelta(t, (10 * time.Minute).Seconds(), d.Seconds(), 1)
	assert.Equal(t, time.Minute, lifetime(&TokenResponse{AccessToken: token, ExpirationInSeconds: 60}, now))
	assert.Zero(t, lifetime(&TokenResponse{AccessToken: "opaque"}, now))
}

type failingPersister struct{ *MemoryPersister }

func (p *failingPersister) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

type undeletablePersister struct{ *MemoryPersister }

func (p *undeletablePersister) Delete(context.Context, string) error {
	return errors.New("read-only")
}

func TestStoreClearedIsNotReloaded(t *testing.T) {
	ctx := context.Background()
	p := &undeletablePersister{MemoryPersister: NewMemoryPersister()}
	s := NewStore(p)
	s.Write(ctx, Session{SignedIn: true, AccessToken: "A1", RefreshToken: "R1"})

	s.Clear(ctx)
	data, err := p.Load(ctx, DefaultPersistKey)
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, Session{}, s.Read(ctx))
	assert.Equal(t, Session{}, s.Snapshot())
}

func TestStoreReadBeforeSettle(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	sess := Session{SignedIn: true, AccessToken: "A1", RefreshToken: "R1"}
	NewStore(p).Write(ctx, sess)

	s := NewStore(p)
	assert.Equal(t, sess, s.Read(ctx))

	// the durable record is read once
	require.NoError(t, p.Delete(ctx, DefaultPersistKey))
	assert.Equal(t, sess, s.Read(ctx))
}

func TestStoreHydrate(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	sess := Session{SignedIn: true, AccessToken: "A1", RefreshToken: "R1", Role: RoleManager}

	NewStore(p).Write(ctx, sess)

	s := NewStore(p)
	assert.False(t, s.Snapshot().SignedIn)
	assert.Equal(t, sess, s.Read(ctx))
	assert.Equal(t, sess, s.Snapshot())

	s.Clear(ctx)
	data, err := p.Load(ctx, DefaultPersistKey)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, Session{}, NewStore(p).Hydrate(ctx))
}

func TestStoreUnreadableRecord(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	require.NoError(t, p.Save(ctx, "custom", []byte("{")))

	s := NewStore(p, WithPersistKey("custom"))
	assert.Equal(t, "custom", s.Key())
	assert.Equal(t, Session{}, s.Hydrate(ctx))
}

func TestStoreMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&failingPersister{MemoryPersister: NewMemoryPersister()})
	sess := Session{SignedIn: true, AccessToken: "A1", RefreshToken: "R1"}
	s.Write(ctx, sess)
	assert.Equal(t, sess, s.Read(ctx))

	s.Write(ctx, Session{SignedIn: true, AccessToken: "A2"})
	assert.Equal(t, Session{}, s.Snapshot())
}
