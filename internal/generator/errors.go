package generator

import "fmt"

// EmptyInputError is returned when a random pick is asked of an empty sequence.
type EmptyInputError struct {
	What string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("cannot pick from empty %s", e.What)
}

// UnknownStandardError is returned for a standard ID with no registered generator.
type UnknownStandardError struct {
	Standard string
}

func (e *UnknownStandardError) Error() string {
	return fmt.Sprintf("no generator for standard %q", e.Standard)
}

// GenerationRetryExhausted is returned when every attempt at a question drew
// degenerate operands.
type GenerationRetryExhausted struct {
	Standard string
	Attempts int
}

func (e *GenerationRetryExhausted) Error() string {
	return fmt.Sprintf("standard %s: no valid question after %d attempts", e.Standard, e.Attempts)
}
