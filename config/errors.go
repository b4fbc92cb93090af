package config

import "errors"

// Sentinel errors reported by blueprint tree operations. They are all
// programmer-error class failures: a malformed tree indicates a logic bug at
// the construction site, not a transient condition, so none of them are
// retryable.
var (
	// ErrUnknownField is returned when a write names a field that was not
	// declared before the node was frozen.
	ErrUnknownField = errors.New("unknown field on frozen config")

	// ErrMissingTarget is returned by Build on a node with no target
	// identifier.
	ErrMissingTarget = errors.New("config has no target")

	// ErrNotReconstructible is returned by Build when the resolver has no
	// factory registered for the node's target.
	ErrNotReconstructible = errors.New("target is not registered for reconstruction")

	// ErrTargetMismatch is returned when a config is handed to a factory
	// registered for a different target.
	ErrTargetMismatch = errors.New("config target does not match factory")

	// ErrElementType is returned when a nil element is inserted into a
	// composite. Composites hold config nodes only.
	ErrElementType = errors.New("composite element must be a non-nil config")
)
