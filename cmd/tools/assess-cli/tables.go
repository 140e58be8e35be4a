// cmd/tools/assess-cli/tables.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"eb2niw-assessor/internal/eligibility"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective scoring tables and rule catalog as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(root.tablesPath)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Scoring eligibility.Config  `json:"scoring"`
				Rules   eligibility.Catalog `json:"rules"`
			}{engine.Config(), engine.Catalog()})
		},
	}
}

func newValidateTablesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-tables",
		Short: "Check a scoring tables file without starting the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.tablesPath == "" {
				return errors.New("--tables is required")
			}
			_, err := loadEngine(root.tablesPath)
			var cfgErr *eligibility.ConfigurationError
			if errors.As(err, &cfgErr) {
				for _, p := range cfgErr.Problems {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
				}
				return fmt.Errorf("%s: %d problem(s)", root.tablesPath, len(cfgErr.Problems))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", root.tablesPath)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "assess-cli %s (%s)\n", version, runtime.Version())
		},
	}
}
