package hotkey

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCombination = errors.New("combination requires at least one key")
	ErrEmptySequence    = errors.New("sequence requires at least one step")
	ErrNoBranches       = errors.New("alternation requires at least one branch")
	ErrNilMatcher       = errors.New("nil matcher")
	ErrNegativeTimeout  = errors.New("negative timeout")
	ErrNilCallback      = errors.New("nil match callback")
	ErrHookInstall      = errors.New("keyboard hook installation failed")
)

// ConfigError reports a matcher or subscription rejected at construction.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("hotkey: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(op string, err error) error {
	return &ConfigError{Op: op, Err: err}
}
