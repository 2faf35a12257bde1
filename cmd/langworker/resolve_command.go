package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"langworker/internal/registry"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <tag>",
		Short: "Resolve a language tag against the configured registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := ctx.loadRegistry()
			if err != nil {
				return err
			}

			match := registry.NewResolver(reg).Resolve(args[0])
			out := cmd.OutOrStdout()
			switch match.Outcome {
			case registry.OutcomeExact:
				fmt.Fprintf(out, "%s -> %s (%s) [exact]\n", match.Input, match.Entry.Tag, match.Entry.Name)
			case registry.OutcomeFallback:
				fmt.Fprintf(out, "%s -> %s (%s) [fallback via %s]\n", match.Input, match.Entry.Tag, match.Entry.Name, match.Matched)
			default:
				return fmt.Errorf("no registered language matches %q", args[0])
			}
			return nil
		},
	}
}
