package envutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTypedGetters(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "42")
	t.Setenv("ENVUTIL_BAD_INT", "forty")
	t.Setenv("ENVUTIL_BOOL", "Yes")
	t.Setenv("ENVUTIL_LIST", " a, ,b ,c")
	t.Setenv("ENVUTIL_SECS", "5")

	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("Int: got=%d want=42", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got=%d want=7", got)
	}
	if got := Bool("ENVUTIL_BOOL", false); !got {
		t.Fatalf("Bool: got=false want=true")
	}
	if got := Bool("ENVUTIL_MISSING_BOOL", true); !got {
		t.Fatalf("Bool default: got=false want=true")
	}
	if got := String("ENVUTIL_MISSING", "def"); got != "def" {
		t.Fatalf("String default: got=%q", got)
	}
	if got := Seconds("ENVUTIL_SECS", time.Minute); got != 5*time.Second {
		t.Fatalf("Seconds: got=%s", got)
	}
	got := List("ENVUTIL_LIST")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("List: got=%v", got)
	}
}

func TestLoadDotEnvKeepsProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ENVUTIL_DOTENV_A=from-file\nENVUTIL_DOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("ENVUTIL_DOTENV_A", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("ENVUTIL_DOTENV_B") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("ENVUTIL_DOTENV_A"); got != "from-process" {
		t.Fatalf("process env overwritten: got=%q", got)
	}
	if got := os.Getenv("ENVUTIL_DOTENV_B"); got != "from-file" {
		t.Fatalf("dotenv value not loaded: got=%q", got)
	}
}
