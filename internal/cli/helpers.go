package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mesh-intelligence/pretenst/internal/sqlite"
	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// attachStore resolves the data directory and attaches the run store. The
// caller must defer Detach.
func (a *app) attachStore() (*sqlite.Backend, error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	store := sqlite.NewBackend()
	if err := store.Attach(types.StoreConfig{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		return nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	return store, nil
}

// classify wraps a store or lookup error with the exit code it deserves.
func classify(err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidBlueprint),
		errors.Is(err, types.ErrUnknownBlueprint),
		errors.Is(err, types.ErrInvalidWorld):
		return userError(err)
	default:
		return sysError(err)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("encode output: %w", err))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// formatFinished renders a run's finish time or a dash while it is open.
func formatFinished(run *types.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.FinishedAt.Format("2006-01-02 15:04:05")
}
