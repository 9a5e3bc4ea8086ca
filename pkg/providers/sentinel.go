package providers

import "errors"

// ErrNoContent reports a successful upstream response whose body carried no
// usable text. Returning an empty string with a nil error would hide this
// from callers, so it is a distinct error: the gateway treats it like an
// unavailable model and moves to the next one in the fallback list.
var ErrNoContent = errors.New("provider returned no content")
