package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
)

// Release metadata, overridden with -ldflags "-X" by the release build.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the engine release and the rulesets compiled into it",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		writeVersion(cmd.OutOrStdout(), short)
	},
}

// writeVersion prints the release, or only its number when short is set.
func writeVersion(w io.Writer, short bool) {
	if short {
		fmt.Fprintln(w, Version)
		return
	}
	fmt.Fprintf(w, "spellweavers %s (%s, built %s)\n", Version, Commit, BuildDate)
	fmt.Fprintf(w, "  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  rulesets: %s\n", strings.Join(ruleset.Builtin(), ", "))
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "print the version number only")
}
