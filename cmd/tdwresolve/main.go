// Command tdwresolve resolves did:tdw identifiers from the command line and
// serves them over HTTP, following the did:tdw resolution pipeline in
// internal/resolve.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tdwresolve",
		Short:         "Resolve did:tdw identifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("cache-dir", "", "directory for the on-disk log cache (empty disables caching)")
	root.PersistentFlags().Duration("cache-ttl", 0, "how long a cached log is considered fresh")
	root.PersistentFlags().Duration("fetch-timeout", 0, "deadline for the log fetch (0 uses the default)")
	root.PersistentFlags().String("log-level", "info", "zerolog level: debug, info, warn, error")

	root.AddCommand(newResolveCommand())
	root.AddCommand(newServeCommand())
	return root
}
