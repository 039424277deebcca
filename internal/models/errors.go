package models

import "errors"

// Common errors
var (
	// ErrEmptyInput is returned when a stage is asked to act on an empty
	// article or tweet list. It is fatal for that stage.
	ErrEmptyInput = errors.New("empty input")
)
