// Package sentinel holds infrastructure errors that services translate into
// domain errors.
package sentinel

import "errors"

// ErrNotFound reports that an entity is not held by the store. Wrap it rather
// than comparing messages.
var ErrNotFound = errors.New("not found")
