package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// VersionOutput represents JSON output format
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show clearance version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := VersionOutput{
			Version: Version,
			Commit:  Commit,
			Date:    BuildDate,
			Go:      runtime.Version(),
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
		}

		if info, ok := debug.ReadBuildInfo(); ok {
			if out.Version == "dev" && info.Main.Version != "" {
				out.Version = info.Main.Version
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if out.Commit == "none" {
						out.Commit = setting.Value
					}
				case "vcs.time":
					if out.Date == "unknown" {
						out.Date = setting.Value
					}
				}
			}
		}

		return printResult(out, func() {
			fmt.Printf("clearance %s (%s, %s)\n", out.Version, out.Commit, out.Date)
			fmt.Printf("%s %s/%s\n", out.Go, out.OS, out.Arch)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
