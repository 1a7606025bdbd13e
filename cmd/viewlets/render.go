package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/container"
	"github.com/vango-dev/viewlets/pkg/render"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		show   []string
		set    []string
		pretty bool
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the layout's record to HTML",
		Long: `Render builds a view container for the layout's sample record, renders
it, shows the requested viewlets in order, applies record updates, and
prints the resulting HTML.

Examples:
  viewlets render
  viewlets render --show settings --pretty
  viewlets render --show summary --set name=mysql
  viewlets render --show settings --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := loadLayout(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			rec := layout.NewRecord()
			c, err := container.New(layout.ContainerConfig(rec))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := c.Render(ctx); err != nil {
				return err
			}
			for _, name := range show {
				if err := c.ShowViewlet(ctx, container.ViewletName(name), nil); err != nil {
					return err
				}
			}
			for _, kv := range set {
				key, val, ok := strings.Cut(kv, "=")
				if !ok || key == "" {
					return errors.New("V004").
						WithSubject(kv).
						WithDetail("--set expects key=value")
				}
				rec.Set(key, val)
			}

			if list {
				printContainer(cmd.OutOrStdout(), c)
				return c.Destroy(ctx)
			}

			r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			out := cmd.OutOrStdout()
			if err := r.RenderToWriter(out, c.Root()); err != nil {
				return err
			}
			if !pretty {
				out.Write([]byte("\n"))
			}
			return c.Destroy(ctx)
		},
	}

	cmd.Flags().StringArrayVar(&show, "show", nil, "Viewlet to show (repeatable)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Record update key=value applied after rendering (repeatable)")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the output")
	cmd.Flags().BoolVar(&list, "list", false, "List viewlets and slot occupancy instead of printing HTML")

	return cmd
}

// printContainer lists viewlets in render order and every slot with its
// target and occupant.
func printContainer(w io.Writer, c *container.Container) {
	fmt.Fprintf(w, "%s\n", c.Name())
	fmt.Fprintln(w, "viewlets:")
	for _, name := range c.Names() {
		v := c.Viewlet(name)
		var state string
		switch {
		case v.Container == nil:
			state = "unrendered"
		case v.Visible():
			state = "shown"
		default:
			state = "hidden"
		}
		if v.Slot != "" {
			fmt.Fprintf(w, "  %-16s %-10s slot=%s\n", name, state, v.Slot)
		} else {
			fmt.Fprintf(w, "  %-16s %s\n", name, state)
		}
	}

	slots := c.Slots()
	fmt.Fprintln(w, "slots:")
	for _, slot := range slots.Names() {
		sel, _ := slots.Target(slot)
		occupant := slots.Occupant(slot)
		if occupant == "" {
			occupant = "-"
		}
		fmt.Fprintf(w, "  %-16s %-20s %s\n", slot, sel, occupant)
	}
}
