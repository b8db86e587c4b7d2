package repos

import "errors"

// ErrNotFound is returned when a requested record does not exist. Repos
// translate the driver-level not-found error so services and fakes do not
// depend on gorm directly.
var ErrNotFound = errors.New("record not found")
