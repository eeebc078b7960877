package batch

import (
	"fmt"

	"github.com/gofrs/flock"
)

// AcquireLock takes an exclusive lock beside the catalog database so two
// imports never write concurrently. The returned release function must be
// called once the run is over.
func AcquireLock(dbPath string) (func(), error) {
	lock := flock.New(dbPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("catalog %s is locked by another import", dbPath)
	}
	return func() { _ = lock.Unlock() }, nil
}
