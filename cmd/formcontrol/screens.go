package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcontrol/pkg/pages"
)

func newScreensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List the screens and their bound fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range pages.Names() {
				screen, err := pages.Lookup(name, a.cfg.PageOptions())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", name, joinFields(screen))
			}
			return nil
		},
	}
}

func joinFields(screen pages.Screen) string {
	names := make([]string, 0, len(screen.Bindings()))
	for name := range screen.Bindings() {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}
