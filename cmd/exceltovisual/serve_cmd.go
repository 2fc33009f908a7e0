package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/moh-ammad/exceltovisual/handlers"
	"github.com/moh-ammad/exceltovisual/logging"

	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.app.cfg
			if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.Address(),
				Handler:           handlers.NewRouter(c.app.deps()),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
	return cmd
}
