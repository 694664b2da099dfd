// Package lock provides keyed mutual exclusion used to serialize invoice
// submissions per owner.
package lock

import (
	"github.com/purchase-invoice/backend/internal/domain/shared"
)

// Supported lock backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ErrNotObtained is returned when a lock could not be acquired before the
// context deadline.
var ErrNotObtained = shared.NewDomainError("LOCK_NOT_OBTAINED", "Another submission for this owner is in progress, please retry")

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func()
