package cliconfig

import (
	"fmt"
	"strconv"
	"time"
)

// layer applies one configuration source (file or environment) on top of
// Config. Keys are flag names; a flag given on the command line always wins,
// so its key is skipped.
type layer map[string]bool

func (l layer) skip(flag string) bool { return l[flag] }

// text copies a non-empty string.
func (l layer) text(flag, v string, dst *string) {
	if v != "" && !l.skip(flag) {
		*dst = v
	}
}

// count copies a positive int. Zero means "not set" in TOML.
func (l layer) count(flag string, v int, dst *int) {
	if v > 0 && !l.skip(flag) {
		*dst = v
	}
}

// explicit copies a value the source marked as present, zero included.
func explicit[T any](l layer, flag string, v *T, dst *T) {
	if v != nil && !l.skip(flag) {
		*dst = *v
	}
}

func (l layer) duration(flag, raw string, dst *time.Duration) error {
	if raw == "" || l.skip(flag) {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// number parses raw and copies it when it is at least min. Smaller values
// are ignored like an unset variable.
func (l layer) number(flag, raw string, min int, dst *int) error {
	if raw == "" || l.skip(flag) {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if n >= min {
		*dst = n
	}
	return nil
}

// boolean accepts the strconv.ParseBool spellings ("1", "true", "false", ...).
func (l layer) boolean(flag, raw string, dst *bool) error {
	if raw == "" || l.skip(flag) {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
