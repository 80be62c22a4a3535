package session

import (
	"bytes"
	"encoding/json"
)

// Persisted layout:
//
//	{"auth":{"session":{"signedIn":true,"token":"…","refreshToken":"…",
//	 "expirationInSeconds":3600,"type":1,"rol":1,"sede":1}}}
type persistedRoot struct {
	Auth json.RawMessage `json:"auth"`
}

type persistedAuth struct {
	Session json.RawMessage `json:"session"`
}

type persistedSession struct {
	SignedIn            bool        `json:"signedIn"`
	Token               *string     `json:"token"`
	RefreshToken        *string     `json:"refreshToken"`
	ExpirationInSeconds int         `json:"expirationInSeconds"`
	Type                AccountType `json:"type"`
	Rol                 Role        `json:"rol"`
	Sede                int         `json:"sede"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Marshal encodes s in the persisted layout. Empty tokens are written as null.
func Marshal(s Session) ([]byte, error) {
	inner, err := json.Marshal(persistedSession{
		SignedIn:            s.SignedIn,
		Token:               optional(s.AccessToken),
		RefreshToken:        optional(s.RefreshToken),
		ExpirationInSeconds: s.ExpiresInSeconds,
		Type:                s.AccountType,
		Rol:                 s.Role,
		Sede:                s.LocationID,
	})
	if err != nil {
		return nil, err
	}
	auth, err := json.Marshal(persistedAuth{Session: inner})
	if err != nil {
		return nil, err
	}
	return json.Marshal(persistedRoot{Auth: auth})
}

// Unmarshal decodes the persisted layout. Layers stored as JSON encoded
// strings are unwrapped. A signed-in record without both tokens decodes to
// the signed-out session.
func Unmarshal(data []byte) (Session, error) {
	var root persistedRoot
	if err := json.Unmarshal(unquote(data), &root); err != nil {
		return Session{}, err
	}
	var auth persistedAuth
	if err := json.Unmarshal(unquote(root.Auth), &auth); err != nil {
		return Session{}, err
	}
	var ps persistedSession
	if err := json.Unmarshal(unquote(auth.Session), &ps); err != nil {
		return Session{}, err
	}

	s := Session{
		SignedIn:         ps.SignedIn,
		AccessToken:      deref(ps.Token),
		RefreshToken:     deref(ps.RefreshToken),
		ExpiresInSeconds: ps.ExpirationInSeconds,
		AccountType:      ps.Type,
		Role:             ps.Rol,
		LocationID:       ps.Sede,
	}
	if !s.Valid() {
		return Session{}, nil
	}
	return s, nil
}

// unquote returns the content of a JSON string literal, or data unchanged.
func unquote(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return data
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return data
	}
	return []byte(s)
}
