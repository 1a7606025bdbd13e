package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewlets/internal/config"
	"github.com/vango-dev/viewlets/internal/errors"
)

const exampleLayout = `name: charm
template: |
  <div class="view-container-wrapper">
    <nav class="tabs">
      <a data-viewlet="summary">Summary</a>
      <a data-viewlet="settings">Settings</a>
    </nav>
    <div class="overview-slot"></div>
    <div class="viewlet-container"></div>
  </div>
slots:
  overview: .overview-slot
viewlets:
  summary:
    template: <h1 data-bind="name">{{.name}}</h1><p data-bind="summary">{{.summary}}</p>
  settings:
    slot: overview
    template:
      value: <dl><dt>Revision</dt><dd data-bind="revision">{{.revision}}</dd></dl>
      writable: false
record:
  id: cs:precise/wordpress-15
  attrs:
    name: wordpress
    summary: Blog engine
    revision: 15
server:
  addr: localhost:8080
log:
  level: info
`

func layoutCmd(flags *globalFlags) *cobra.Command {
	var initDir string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the expanded layout",
		Long: `Layout loads the layout file, validates it, and prints it as YAML with
every viewlet override expanded into {value, writable} form.

With --init, an example viewlets.yaml is written instead.

Examples:
  viewlets layout
  viewlets layout --layout ./charm.json
  viewlets layout --init .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initDir != "" {
				return writeExample(cmd, initDir)
			}
			layout, err := loadLayout(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return layout.Expanded().WriteYAML(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&initDir, "init", "", "Write an example layout into this directory")

	return cmd
}

func writeExample(cmd *cobra.Command, dir string) error {
	if config.Exists(dir) {
		return errors.New("V004").
			WithSubject(dir).
			WithDetail("a layout file already exists")
	}
	path := filepath.Join(dir, config.ConfigName+".yaml")
	if err := os.WriteFile(path, []byte(exampleLayout), 0644); err != nil {
		return errors.New("V004").WithSubject(path).Wrap(err)
	}
	success(cmd.OutOrStdout(), "Wrote %s", path)
	return nil
}
