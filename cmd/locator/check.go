package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve every binding once and report failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, b := range a.registry.Bindings() {
				if _, err := b.Resolve(); err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", b, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s %s\n", b, b.Lifecycle)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d bindings failed to resolve", failed, a.registry.Len())
			}
			a.log.Infof("%d bindings resolved", a.registry.Len())
			return nil
		},
	}
}
