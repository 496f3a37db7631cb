package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X .../cmd.version=v1.2.3" in release builds.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Println(version)
			return
		}
		fmt.Printf("eduquest %s\n", version)
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fmt.Printf("  go      %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Printf("  commit  %s\n", truncate(s.Value, 12))
			case "vcs.time":
				fmt.Printf("  built   %s\n", s.Value)
			case "vcs.modified":
				if s.Value == "true" {
					fmt.Println("  dirty   yes")
				}
			}
		}
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version number")
}
