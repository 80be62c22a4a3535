package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(401, "credenciales inválidas")
	if err.GetCode() != 401 {
		t.Errorf("expected code 401, got %d", err.GetCode())
	}
	if err.GetMessage() != "credenciales inválidas" {
		t.Errorf("unexpected message %q", err.GetMessage())
	}

	t.Logf("Error: %s", err.Error())
}

func TestWithMetadata(t *testing.T) {
	err := New(400, "bad request")

	if err2 := err.WithMetadata(map[string]string{}); err != err2 {
		t.Error("WithMetadata with empty map should return same instance")
	}

	err3 := err.WithMetadata(map[string]string{"endpoint": "customers"})
	if err == err3 {
		t.Error("WithMetadata should return new instance")
	}
	if err3.GetMetadata()["endpoint"] != "customers" {
		t.Errorf("metadata not set correctly: %v", err3.GetMetadata())
	}
}

func TestFromError(t *testing.T) {
	stdErr := errors.New("standard error")
	wrapped := FromError(stdErr)
	if wrapped.GetCode() != UnknownCode {
		t.Errorf("expected code %d, got %d", UnknownCode, wrapped.GetCode())
	}
	if !errors.Is(wrapped, stdErr) {
		t.Error("FromError should keep the original error in the chain")
	}

	existing := New(404, "not found")
	if FromError(existing) != existing {
		t.Error("FromError should return same instance for *Error")
	}
}

func TestFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"string message", 401, `{"statusCode":401,"message":"Credenciales inválidas","error":"Unauthorized"}`, "Credenciales inválidas"},
		{"list message", 400, `{"statusCode":400,"message":["email must be an email","password too short"]}`, "email must be an email; password too short"},
		{"reason only", 409, `{"statusCode":409,"error":"Conflict"}`, "Conflict"},
		{"empty body", 500, ``, http.StatusText(500)},
		{"not json", 502, `<html>bad gateway</html>`, http.StatusText(502)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FromResponse(tc.status, []byte(tc.body))
			if err.Code != tc.status {
				t.Errorf("expected code %d, got %d", tc.status, err.Code)
			}
			if err.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, err.Message)
			}
		})
	}
}

func TestTransport(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Transport(cause)

	if !IsTransport(err) {
		t.Error("expected transport error")
	}
	if IsUnauthorized(err) {
		t.Error("transport error is not unauthorized")
	}
	if MessageOf(err) != cause.Error() {
		t.Errorf("unexpected message %q", MessageOf(err))
	}
	if Transport(nil) != nil {
		t.Error("Transport(nil) should be nil")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != 0 {
		t.Error("nil error has no code")
	}
	if CodeOf(errors.New("x")) != UnknownCode {
		t.Error("foreign errors map to UnknownCode")
	}
	if !IsUnauthorized(Unauthorized("expired")) {
		t.Error("expected unauthorized")
	}
}
