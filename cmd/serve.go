package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DhavalSuthar-24/crease/config"
	"github.com/DhavalSuthar-24/crease/routes"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			db, err := config.ConnectDB(*cfg)
			if err != nil {
				return err
			}
			// The in-memory store starts empty every time.
			if autoMigrate || cfg.App.StoreDriver != config.StorePostgres {
				if err := migrate(db); err != nil {
					return err
				}
			}

			a, err := newApp(cfg, db)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			a.run(ctx)

			srv := &http.Server{
				Addr:    ":" + cfg.App.Port,
				Handler: routes.SetupRoutes(a.deps),
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Printf("Server shutdown: %v", err)
				}
			}()

			log.Printf("Starting server on port %s in %s mode (%s store)\n", cfg.App.Port, cfg.App.Env, cfg.App.StoreDriver)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run AutoMigrate before serving")
	return cmd
}
