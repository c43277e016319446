package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for build details and module versions.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		identity := GetAppIdentity()
		fmt.Fprintf(out, "%s %s\n", identity.BinaryName, versionInfo.Version)

		extended, _ := cmd.Flags().GetBool("extended")
		if !extended {
			return nil
		}

		fmt.Fprintf(out, "Commit: %s\n", versionInfo.Commit)
		fmt.Fprintf(out, "Built: %s\n", versionInfo.BuildDate)
		fmt.Fprintf(out, "Go: %s\n", runtime.Version())

		if info, ok := debug.ReadBuildInfo(); ok && len(info.Deps) > 0 {
			deps := make([]string, 0, len(info.Deps))
			for _, dep := range info.Deps {
				deps = append(deps, dep.Path+" "+dep.Version)
			}
			sort.Strings(deps)
			fmt.Fprintln(out)
			for _, dep := range deps {
				fmt.Fprintln(out, dep)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("extended", "e", false, "show extended version information")
}
