package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/moh-ammad/exceltovisual/config"
	"github.com/moh-ammad/exceltovisual/logging"

	"github.com/spf13/cobra"
)

// cli carries the state shared by every subcommand.
type cli struct {
	envFile string
	memory  bool
	app     *app
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:          "exceltovisual",
		Short:        "Task manager API with spreadsheet import and export",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
	}
	cmd.PersistentFlags().StringVar(&c.envFile, "env", ".env", "Env file to load when present")
	cmd.PersistentFlags().BoolVar(&c.memory, "memory", false, "Use in-process stores instead of MongoDB")

	cmd.AddCommand(newServeCmd(c), newImportCmd(c), newExportCmd(c))
	return cmd
}

func (c *cli) open(ctx context.Context) error {
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}
	logging.InitLogger(logging.Options{SystemName: "exceltovisual", File: cfg.LogFile, Level: cfg.LogLevel})

	s, err := openStores(ctx, cfg, c.memory)
	if err != nil {
		return err
	}
	c.app = newApp(cfg, s)
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.stores.close()
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
