package caption

import "errors"

var (
	// ErrIncompleteResult means the structurer pass produced fewer than
	// three non-empty captions. Partial results are never a success state.
	ErrIncompleteResult = errors.New("model returned incomplete captions")
)
