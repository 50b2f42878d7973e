package engine

import "errors"

// ErrNotFound is returned for an unknown production line, skill node,
// resource or specialization. Ids come from a static catalog, so this is a
// caller bug rather than a runtime condition.
var ErrNotFound = errors.New("not found")
