package env

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGetUnset(t *testing.T) {
	t.Setenv(Seed, "")
	if _, err := Get(Seed); !errors.Is(err, ErrUnset) {
		t.Errorf("expected ErrUnset, got %v", err)
	}
}

func TestTypedGetters(t *testing.T) {
	t.Setenv(Seed, "1234")
	t.Setenv(Mute, "true")

	seed, err := Int64(Seed, 0)
	if err != nil || seed != 1234 {
		t.Errorf("Int64 = %d, %v", seed, err)
	}
	mute, err := Bool(Mute, false)
	if err != nil || !mute {
		t.Errorf("Bool = %v, %v", mute, err)
	}
	if got := String(ConfigPath, "tuning.json"); got != "tuning.json" {
		t.Errorf("String default = %q", got)
	}
}

func TestTypedGetterBadValue(t *testing.T) {
	t.Setenv(Seed, "not-a-number")
	seed, err := Int64(Seed, 7)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if seed != 7 {
		t.Errorf("expected default on error, got %d", seed)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PINEWOOD_FULLSCREEN=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(Fullscreen, "")
	os.Unsetenv(Fullscreen)

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	full, err := Bool(Fullscreen, false)
	if err != nil || !full {
		t.Errorf("Fullscreen = %v, %v", full, err)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("Load of missing file: %v", err)
	}
}

func TestFlagsWinOverEnvironment(t *testing.T) {
	t.Setenv(Seed, "99")
	t.Setenv(Mute, "false")
	t.Setenv(ConfigPath, "from-env.json")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"seed flag set", must(Int64Flag(7, Seed, 0)), int64(7)},
		{"seed from env", must(Int64Flag(0, Seed, 0)), int64(99)},
		{"mute flag set", must(BoolFlag(true, Mute)), true},
		{"mute from env", must(BoolFlag(false, Mute)), false},
		{"config flag set", StringFlag("cli.json", ConfigPath, "d.json"), "cli.json"},
		{"config from env", StringFlag("", ConfigPath, "d.json"), "from-env.json"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	t.Setenv(ConfigPath, "")
	if got := StringFlag("", ConfigPath, "d.json"); got != "d.json" {
		t.Errorf("default config = %q, want d.json", got)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
