package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/catalog"
	"github.com/sidereusnuntius/gonovel/internal/initialization"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
	"github.com/sidereusnuntius/gonovel/internal/service/impl"
	"github.com/sidereusnuntius/gonovel/internal/state"
	"github.com/sidereusnuntius/gonovel/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, closer, err := initialization.OpenStore(ctx, &cfg)
		if err != nil {
			return fmt.Errorf("open %s backend: %w", cfg.Backend, err)
		}
		defer closer.Close()

		s := state.State{
			Store:   localstore.New(store),
			Catalog: catalog.New(cfg.CatalogSource, &http.Client{Timeout: 30 * time.Second}),
			Config:  cfg,
			Clock:   state.SystemClock{},
		}
		service := impl.New(&s)

		manager := scs.NewCookieManager(cfg.SessionKey)
		handler := web.New(&cfg, service, manager)
		router := chi.NewRouter()
		router.Use(middleware.Recoverer)
		if cfg.Debug {
			router.Use(requestLogger)
		}
		handler.Mount(router)

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shut down server")
			}
		}()

		log.Info().Uint16("port", cfg.Port).Str("backend", cfg.Backend).Msg("started server")
		if err = server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().Uint16P("port", "p", 8080, "port to listen on")
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
