package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewlets/internal/config"
	"github.com/vango-dev/viewlets/pkg/container"
	"github.com/vango-dev/viewlets/pkg/viewlet"
)

// buildInfo is what `viewlets version` reports.
type buildInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	Built     string   `json:"built"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	Layouts   []string `json:"layouts"`
	EnvPrefix string   `json:"env_prefix"`
	Container string   `json:"container_template"`
	Wrapper   string   `json:"viewlet_wrapper"`
}

func currentBuild() buildInfo {
	layouts := make([]string, 0, len(config.Extensions)+1)
	for _, ext := range config.Extensions {
		layouts = append(layouts, config.ConfigName+"."+ext)
	}
	layouts = append(layouts, config.S3Scheme+"bucket/key")

	return buildInfo{
		Version:   version,
		Commit:    commit,
		Built:     date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Layouts:   layouts,
		EnvPrefix: config.EnvPrefix + "_",
		Container: container.DefaultTemplate,
		Wrapper:   viewlet.DefaultWrapper,
	}
}

func versionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and layout defaults",
		Long: `Print the build version together with the layout sources this binary
accepts and the default container and viewlet wrapper templates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return nil
			}

			info := currentBuild()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Fprintf(out, "  Version:    %s (%s, built %s)\n", info.Version, info.Commit, info.Built)
			fmt.Fprintf(out, "  Go:         %s %s\n", info.GoVersion, info.Platform)
			fmt.Fprintf(out, "  Layouts:    %s\n", strings.Join(info.Layouts, ", "))
			fmt.Fprintf(out, "  Env prefix: %s\n", info.EnvPrefix)
			fmt.Fprintf(out, "  Container:  %s\n", info.Container)
			fmt.Fprintf(out, "  Wrapper:    %s\n", info.Wrapper)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
