package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/internal/cli/common"
)

// Set through -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type info struct {
	Version     string `json:"version" yaml:"version"`
	Commit      string `json:"commit" yaml:"commit"`
	BuildDate   string `json:"build_date" yaml:"build_date"`
	GoVersion   string `json:"go_version" yaml:"go_version"`
	APIVersions string `json:"api_versions" yaml:"api_versions"`
}

func NewCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.WriteOutput(cmd, globalFlags.Output, current(), func(w io.Writer, item info) error {
				_, err := fmt.Fprintf(w, "%s (%s) %s %s api %s\n", item.Version, item.Commit, item.BuildDate, item.GoVersion, item.APIVersions)
				return err
			})
		},
	}
}

func current() info {
	value := info{
		Version:     Version,
		Commit:      Commit,
		BuildDate:   BuildDate,
		GoVersion:   runtime.Version(),
		APIVersions: config.SupportedAPIVersions,
	}

	// go install builds carry module and vcs data instead of ldflags.
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return value
	}
	if value.Version == "dev" && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		value.Version = buildInfo.Main.Version
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if value.Commit == "unknown" {
				value.Commit = setting.Value
			}
		case "vcs.time":
			if value.BuildDate == "unknown" {
				value.BuildDate = setting.Value
			}
		}
	}
	return value
}
