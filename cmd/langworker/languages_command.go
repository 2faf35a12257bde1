package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the registered languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, cat, err := ctx.loadCatalog()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, reg.Len())
			for _, entry := range reg.Entries() {
				contentType := ""
				if res, ok := cat.Lookup(entry); ok {
					contentType = res.ContentType
				}
				rows = append(rows, []string{
					entry.Tag,
					entry.Name,
					strings.Join(entry.Aliases, ", "),
					contentType,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"TAG", "NAME", "ALIASES", "CONTENT TYPE"}, rows))
			return nil
		},
	}
}
