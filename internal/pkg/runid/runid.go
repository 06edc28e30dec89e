// Package runid generates the opaque run identifiers handed back to
// callers of every probe operation.
package runid

import "github.com/google/uuid"

// New returns a fresh run ID. Callers must treat the string as opaque.
func New() string {
	return uuid.NewString()
}
