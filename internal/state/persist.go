// Package state holds the process-wide history and settings containers. Each
// container is read from its named store once at startup and written back
// after every mutation.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nutrisnap/internal/storage"
)

const (
	HistoryStoreName  = "nutrisnap-history-storage"
	SettingsStoreName = "nutrisnap-settings-storage"

	storeVersion = 0
)

// envelope is the on-disk shape of a store: {"state": ..., "version": N}.
type envelope[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

// load decodes the named store over dst, so fields absent from the stored
// document keep their current values. It reports false when the store has
// never been written.
func load[T any](ctx context.Context, backend storage.Backend, name string, dst *T) (bool, error) {
	data, err := backend.Load(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	env := envelope[T]{State: *dst}
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("failed to decode store %s: %w", name, err)
	}
	*dst = env.State
	return true, nil
}

func save[T any](ctx context.Context, backend storage.Backend, name string, v T) error {
	data, err := json.Marshal(envelope[T]{State: v, Version: storeVersion})
	if err != nil {
		return fmt.Errorf("failed to encode store %s: %w", name, err)
	}
	return backend.Save(ctx, name, data)
}
