package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type importOutput struct {
	File    string   `json:"file"`
	Message string   `json:"message"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
	Summary any      `json:"summary"`
}

func newImportCmd(c *cli) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import a Users/Tasks workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := c.app.actor(ctx, as)
			if err != nil {
				return err
			}

			data, err := readFile(args[0])
			if err != nil {
				return err
			}
			res, err := c.app.reports.Import(ctx, data, *actor, !actor.IsAdmin())
			if err != nil {
				return err
			}

			errs := res.Errors
			if errs == nil {
				errs = []string{}
			}
			if err := writeJSON(cmd.OutOrStdout(), importOutput{
				File:    args[0],
				Message: res.Message(),
				Success: res.OK(),
				Errors:  errs,
				Summary: res,
			}); err != nil {
				return err
			}
			if !res.OK() {
				return fmt.Errorf("%d row errors", len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "Email of the user the import runs as (required)")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
