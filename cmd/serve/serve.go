// Package serve implements the assetmap serve command.
package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tweag/assetmap/cmd/internal/cmdhelper"
	"github.com/tweag/assetmap/internal/logging"
	"github.com/tweag/assetmap/manifest"
	"github.com/tweag/assetmap/server"
	"github.com/tweag/assetmap/service/resolver"
)

const shutdownTimeout = 5 * time.Second

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolved collections and import maps over HTTP",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	flags := cmd.Flags()
	flags.String("listen", "", "Address the HTTP server binds to")
	flags.String("base_path", "", "Path prefix of all HTTP routes")
	flags.String("cache_control", "", "Cache-Control header value for collection and import map responses")
	flags.Bool("watch", false, "Reload the manifest on change and resolve per request")
	flags.Duration("resolve_ttl", 0, "Cache resolved collections for this long in watch mode (0 disables the cache)")
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	config, err := cmdhelper.Configure(cmd)
	if err != nil {
		return err
	}
	resolveTTL, err := cmd.Flags().GetDuration("resolve_ttl")
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	var res resolver.Resolver
	if config.Watch {
		watcher, err := manifest.NewWatcher(config.ManifestPath, config.Algorithm())
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx, &wg); err != nil {
			watcher.Stop()
			return err
		}
		res = resolver.NewDirect(watcher, config.Algorithm())
		if resolveTTL > 0 {
			res = resolver.NewExpiring(res, resolveTTL, resolveTTL)
		}
	} else {
		if resolveTTL > 0 {
			logging.Warningf("resolve_ttl has no effect without watch: the manifest is read once and memoized")
		}
		parsed, err := manifest.Load(config.ManifestPath)
		if err != nil {
			return err
		}
		res = resolver.NewCached(manifest.NewSource(parsed), config.Algorithm())
	}

	httpServer := &http.Server{
		Addr: config.Listen,
		Handler: server.Handler(res, server.Options{
			BasePath:     config.BasePath,
			CacheControl: config.CacheControl,
		}),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Errorf("shutting down http server: %v", err)
		}
	}()

	logging.Basicf("Serving %s at http://%s%s", config.ManifestPath, config.Listen, config.BasePath)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	cancel()
	wg.Wait()
	return nil
}
