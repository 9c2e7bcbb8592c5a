package worksheet

import (
	"errors"
	"fmt"
)

// ErrNotRegenerable is returned when a custom question is asked to regenerate.
var ErrNotRegenerable = errors.New("custom questions cannot be regenerated")

// IndexError reports an index outside the worksheet's question list.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("question index %d out of range [0,%d)", e.Index, e.Len)
}

// GroupSizeError reports a replacement group whose size does not match the
// group being replaced.
type GroupSizeError struct {
	Want int
	Got  int
}

func (e *GroupSizeError) Error() string {
	return fmt.Sprintf("replacement group has %d questions, want %d", e.Got, e.Want)
}

// OptionsError reports a multiple-choice question that breaks the option invariant.
type OptionsError struct {
	Question int
	Reason   string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("question %d: %s", e.Question, e.Reason)
}
