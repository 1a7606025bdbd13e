package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/viewlets/internal/config"
	"github.com/vango-dev/viewlets/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	layout   string
	logLevel string
	noColor  bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "viewlets",
		Short: "Render records as sets of swappable viewlets",
		Long: `viewlets renders a single record into a view container made of named
viewlets, keeps each viewlet bound to the record, and swaps the viewlet
shown in a slot on demand.

A layout file (viewlets.yaml, viewlets.json or viewlets.toml) describes
the container: main template, slots, viewlet descriptors and the sample
record.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.noColor || !isTerminal(stderr) {
				errors.DisableColors()
			}
			return setupLogging(stderr, flags.logLevel)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&flags.layout, "layout", "l", "", "Layout file or s3://bucket/key (default: search for viewlets.* upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from layout)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		renderCmd(flags),
		layoutCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setupLogging installs a text handler at the given level. An empty level
// keeps the default until a layout supplies one.
func setupLogging(w io.Writer, level string) error {
	if level == "" {
		level = config.DefaultLogLevel
	}
	l, err := config.ParseLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
	return nil
}

// defaultRegion is used for s3:// layouts when AWS_REGION is unset.
const defaultRegion = "us-east-1"

// loadLayout loads the layout named by --layout, or finds one.
func loadLayout(ctx context.Context, flags *globalFlags, stderr io.Writer) (*config.Layout, error) {
	var (
		layout *config.Layout
		err    error
	)
	if bucket, key, ok := config.ParseS3URL(flags.layout); ok {
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = defaultRegion
		}
		layout, err = config.LoadS3(ctx, config.NewS3Client(region), bucket, key)
	} else if flags.layout != "" {
		layout, err = config.LoadFile(flags.layout)
	} else {
		var wd, root string
		wd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		root, err = config.FindRoot(wd)
		if err != nil {
			return nil, err
		}
		layout, err = config.Load(root)
	}
	if err != nil {
		return nil, err
	}

	// the layout's level applies unless --log-level was given
	if flags.logLevel == "" {
		if err := setupLogging(stderr, layout.Log.Level); err != nil {
			return nil, err
		}
	}
	slog.Debug("layout loaded", "path", layout.Path(), "viewlets", len(layout.Viewlets))
	return layout, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
