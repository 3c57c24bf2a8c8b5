// Package env reads runtime settings from the process environment, optionally
// seeded from a .env file.
package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Variable names understood by the game.
const (
	ConfigPath = "PINEWOOD_CONFIG"
	Seed       = "PINEWOOD_SEED"
	Mute       = "PINEWOOD_MUTE"
	Fullscreen = "PINEWOOD_FULLSCREEN"
)

// ErrUnset is returned when a variable is missing or empty.
var ErrUnset = errors.New("environment variable not set")

// Load reads .env files into the environment. Missing files are not an
// error; variables already set in the process win.
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("failed to load environment files: %w", err)
	}
	return nil
}

// Get returns a variable or ErrUnset.
func Get(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("%s: %w", v, ErrUnset)
	}
	return b, nil
}

// String returns a variable or def when unset.
func String(v, def string) string {
	s, err := Get(v)
	if err != nil {
		return def
	}
	return s
}

// Int64 returns a variable parsed as an integer, or def when unset.
func Int64(v string, def int64) (int64, error) {
	s, err := Get(v)
	if err != nil {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", v, err)
	}
	return n, nil
}

// Bool returns a variable parsed as a boolean, or def when unset.
func Bool(v string, def bool) (bool, error) {
	s, err := Get(v)
	if err != nil {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def, fmt.Errorf("%s: %w", v, err)
	}
	return b, nil
}

// Int64Flag returns the flag value when it is set (non-zero), otherwise the
// variable, otherwise def.
func Int64Flag(flagValue int64, v string, def int64) (int64, error) {
	if flagValue != 0 {
		return flagValue, nil
	}
	return Int64(v, def)
}

// BoolFlag returns true when the flag is set, otherwise the variable.
func BoolFlag(flagValue bool, v string) (bool, error) {
	if flagValue {
		return true, nil
	}
	return Bool(v, false)
}

// StringFlag returns the flag value when non-empty, otherwise the variable,
// otherwise def.
func StringFlag(flagValue, v, def string) string {
	if flagValue != "" {
		return flagValue
	}
	return String(v, def)
}
