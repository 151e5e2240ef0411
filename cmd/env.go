package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/progress"
	"github.com/abhisek/academy/internal/store"
)

// env is the opened store, progress tracker and content of one command.
// store is nil for an ephemeral run.
type env struct {
	store   *store.Store
	tracker *progress.Tracker
	lib     *content.Library
}

// openEnv loads content first so a bad curriculum fails before the
// database is touched.
func (c *cli) openEnv(ctx context.Context) (*env, error) {
	lib, err := c.loadLibrary()
	if err != nil {
		return nil, err
	}

	e := &env{lib: lib}
	var kv store.KV
	if c.ephemeral {
		kv = store.NewMemoryKV()
		slog.Debug("ephemeral run, progress kept in memory")
	} else {
		dbPath, err := c.resolveDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		slog.Debug("store opened", "path", dbPath)
		e.store = st
		kv = st.KV()
	}

	adapter := progress.NewAdapter(kv, progress.WithLogger(slog.Default()))
	e.tracker = progress.NewTracker(ctx, adapter, progress.WithPassThreshold(c.cfg.PassThreshold))
	return e, nil
}

func (c *cli) loadLibrary() (*content.Library, error) {
	if c.cfg.ContentDir == "" {
		return content.LoadDefault(c.cfg.LoadOptions())
	}
	lib, err := content.LoadDir(c.cfg.ContentDir, c.cfg.LoadOptions())
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return lib, nil
}

func (e *env) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}
