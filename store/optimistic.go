package store

import "context"

// Optimistic applies a local change before the server confirms it.
// remote runs after apply; when it fails revert undoes the local change
// and the remote error is returned untouched.
func Optimistic(ctx context.Context, apply, revert func(), remote func(ctx context.Context) error) error {
	apply()
	if err := remote(ctx); err != nil {
		revert()
		return err
	}
	return nil
}
