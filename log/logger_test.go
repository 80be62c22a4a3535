package log

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kochabx/divina/errors"
	"github.com/kochabx/divina/log/desensitize"
	"github.com/kochabx/divina/log/writer"
)

func TestLog(t *testing.T) {
	logger := New()
	logger.Debug().Msg("test debug message")
	logger.Info().Str("sede", "1").Msg("test info with field")
	logger.Error().Err(errors.New(400, "test")).Msg("test error")
}

func TestGlobalLog(t *testing.T) {
	SetGlobalLevel(zerolog.InfoLevel)
	Debug().Msg("test global debug log")
	Info().Msg("test global info log")
	Warn().Err(errors.New(404, "test warn error")).Msg("test global warn error log")
	Error().Err(errors.New(500, "test global error")).Msg("test global error log")
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf).Named("session")
	logger.Info().Msg("armed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if line["component"] != "session" {
		t.Errorf("expected component field, got %v", line)
	}
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, WithLevel(ParseLevel("warn")))
	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level: %s", buf.String())
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Error("unknown level should fall back to info")
	}
}

func TestDesensitizedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, WithDesensitize(desensitize.Default()))
	logger.Info().
		Str("access_token", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig").
		Str("refresh_token", "r-123").
		Str("header", "Bearer abc.def.ghi").
		Msg("token issued")

	out := buf.String()
	for _, secret := range []string{"eyJhbGci", "r-123", "abc.def.ghi"} {
		if strings.Contains(out, secret) {
			t.Errorf("secret %q leaked: %s", secret, out)
		}
	}
	if !strings.Contains(out, "token issued") {
		t.Errorf("message missing: %s", out)
	}
}

func TestFileLog(t *testing.T) {
	logger, err := NewFile(FileConfig{
		Filepath:   t.TempDir(),
		RotateMode: writer.RotateModeSize,
		Filename:   "test",
	})
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}
	defer logger.Close()

	logger.Info().Msg("test file log")
}

func TestFileLogDefaults(t *testing.T) {
	c := FileConfig{Filepath: filepath.Join(t.TempDir(), "logs")}
	c.applyDefaults()
	if c.Filename != "divina" || c.FileExt != "log" || c.MaxSize != 100 {
		t.Errorf("unexpected defaults: %+v", c)
	}
}
