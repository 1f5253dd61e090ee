package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/metrics"
)

type watchOptions struct {
	*rootOptions
	addr string
}

func newWatchCmd(o *rootOptions) *cobra.Command {
	wo := &watchOptions{rootOptions: o}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Serve loads over HTTP and reload definition files when they change",
		Long: `Watch keeps the definition files loaded, rebuilding the registry whenever one
of them is written. A definition that fails to build is logged and the previous
registry stays in service.

Endpoints:
  GET  /metrics                 Prometheus metrics
  GET  /schemas                 fully-qualified names of the defined schema types
  POST /schemas/{name}/load     load the request body (JSON or YAML); ?many=true for sequences`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return wo.run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&wo.addr, "metrics-addr", ":9090", "listen address for /metrics and the load API")
	return cmd
}

func (wo *watchOptions) run(ctx context.Context) error {
	log := goschema.Logger()
	promReg := prometheus.NewRegistry()
	obs := metrics.NewObserver(promReg)

	h, err := newHolder(wo.rootOptions, obs)
	if err != nil {
		return err
	}
	if err := h.watch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              wo.addr,
		Handler:           newRouter(h, promReg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", wo.addr).Msg("serving")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// holder owns the current registry and swaps it on every successful reload.
type holder struct {
	opts *rootOptions
	obs  *metrics.Observer

	mu    sync.RWMutex
	reg   *goschema.Registry
	types []*goschema.SchemaType
}

func newHolder(opts *rootOptions, obs *metrics.Observer) (*holder, error) {
	h := &holder{opts: opts, obs: obs}
	if err := h.reload(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *holder) current() (*goschema.Registry, []*goschema.SchemaType) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg, h.types
}

func (h *holder) reload() error {
	reg, types, err := h.opts.registry()
	if err == nil {
		for _, t := range types {
			if err = resolveNested(t); err != nil {
				err = fmt.Errorf("%s: %w", t.FullName(), err)
				break
			}
		}
	}
	h.obs.ObserveReload(len(types), err)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.reg, h.types = reg, types
	h.mu.Unlock()
	goschema.Logger().Info().Int("schemas", len(types)).Msg("definitions loaded")
	return nil
}

// watch watches the directories of the definition files, which also catches
// editors that save by renaming a temporary file.
func (h *holder) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	files := map[string]bool{}
	for _, p := range h.opts.defs {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return fmt.Errorf("absolute path: %w", err)
		}
		files[abs] = true
		if err := w.Add(filepath.Dir(abs)); err != nil {
			w.Close()
			return fmt.Errorf("watch directory: %w", err)
		}
	}
	go h.loop(ctx, w, files)
	return nil
}

func (h *holder) loop(ctx context.Context, w *fsnotify.Watcher, files map[string]bool) {
	log := goschema.Logger()
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !files[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug().Str("event", ev.Op.String()).Str("file", ev.Name).Msg("definition file changed")
			if err := h.reload(); err != nil {
				log.Error().Err(err).Msg("reload failed; keeping previous definitions")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("file watcher error")
		}
	}
}
