package log

import (
	"testing"

	"github.com/kochabx/divina/log/desensitize"
)

func TestDesensitizeHook(t *testing.T) {
	hook := desensitize.NewHook()
	if err := hook.AddContentRule("cedula", `\b([VvEe])-?(\d{2})\d{3,6}\b`, "$1-$2******"); err != nil {
		t.Fatalf("failed to add cedula rule: %v", err)
	}
	if err := hook.AddFieldRule("password", "password", "******"); err != nil {
		t.Fatalf("failed to add password rule: %v", err)
	}

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"cedula", "cliente V-12345678 registrado", "cliente V-12****** registrado"},
		{"password field", `{"email":"a@b.co","password":"12345678"}`, `{"email":"a@b.co","password":"******"}`},
		{"escaped quote", `{"password":"a\"b"}`, `{"password":"******"}`},
		{"no sensitive data", "sesión iniciada", "sesión iniciada"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := hook.Desensitize(tc.input); got != tc.expected {
				t.Errorf("expected: %s, got: %s", tc.expected, got)
			}
		})
	}
}

func TestBuiltinRules(t *testing.T) {
	hook := desensitize.Default()

	testCases := []struct {
		input    string
		expected string
	}{
		{`{"token":"abc"}`, `{"token":"******"}`},
		{`{"refreshToken":"xyz"}`, `{"refreshToken":"******"}`},
		{`Authorization: Bearer abc.def`, `Authorization: Bearer ******`},
	}

	for _, tc := range testCases {
		if got := hook.Desensitize(tc.input); got != tc.expected {
			t.Errorf("expected: %s, got: %s", tc.expected, got)
		}
	}
}

func TestHookRuleManagement(t *testing.T) {
	hook := desensitize.NewHook(desensitize.EmailRule)
	if hook.RuleCount() != 1 {
		t.Fatalf("expected 1 rule, got %d", hook.RuleCount())
	}

	in := "admin@divinalaser.com"
	if hook.Desensitize(in) == in {
		t.Error("email should be masked")
	}

	hook.SetEnabled("email", false)
	if hook.Desensitize(in) != in {
		t.Error("disabled rule should not apply")
	}
	hook.SetEnabled("email", true)

	if !hook.RemoveRule("email") || hook.RuleCount() != 0 {
		t.Error("rule should be removed")
	}
	if hook.RemoveRule("email") {
		t.Error("second remove should report false")
	}
}
