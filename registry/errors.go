package registry

import "errors"

// ErrMissingParam is returned when a constructor parameter has no default
// factory, no override, and no supplied argument: the system has no way to
// obtain a value for it.
var ErrMissingParam = errors.New("required parameter has no value")
