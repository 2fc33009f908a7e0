package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/reports"

	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		out string
		as  string
	)

	cmd := &cobra.Command{
		Use:   "export <users|tasks|users-tasks|template|my-tasks>",
		Short: "Write a report workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := reports.ParseReportKind(args[0])
			if err != nil {
				return err
			}

			// offline exports run with operator rights unless --as is given
			actor := models.User{Role: models.RoleAdmin}
			if as != "" || kind == reports.KindMyTasks {
				u, err := c.app.actor(ctx, as)
				if err != nil {
					return err
				}
				actor = *u
			}

			report, err := c.app.reports.Export(ctx, kind, actor)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := report.Write(&buf); err != nil {
				return err
			}
			if out == "" {
				out = report.Filename
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (defaults to the report's file name)")
	cmd.Flags().StringVar(&as, "as", "", "Email of the user the export runs as")
	return cmd
}
