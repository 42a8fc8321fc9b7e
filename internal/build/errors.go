package build

import "errors"

// Sentinel errors for build failures. Wrap them with context at the call site.
var (
	ErrContentRootMissing = errors.New("pagebuilder: content root missing")
	ErrNoPages            = errors.New("pagebuilder: no pages generated")
	ErrStepPanic          = errors.New("pagebuilder: step panicked")
)
