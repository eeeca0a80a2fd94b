// Command statusstore runs the CI-signal store daemon: it serves the
// StatusStore RPC service over gRPC, backed by one embedded SQLite database
// per repository.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at release time via -ldflags; "dev" during local builds.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "statusstore",
		Short: "CI-signal time-series store",
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the statusstore version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(Version)
			return nil
		},
	}
}
