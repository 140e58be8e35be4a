// cmd/tools/assess-cli/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "unknown"

type rootOptions struct {
	tablesPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "assess-cli",
		Short: "Score EB-2 / NIW profiles offline",
		Long: `assess-cli runs the eligibility scoring engine against a profile file without
the HTTP service, database or cache.

Scoring tables default to the built-in set. Pass --tables to merge a YAML file
over them, the same file the service reads from scoring.tables_path.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.tablesPath, "tables", "", "YAML scoring tables merged over the built-in ones")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		newAssessCmd(opts),
		newConfigCmd(opts),
		newValidateTablesCmd(opts),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
