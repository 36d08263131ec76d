package main

import (
	"github.com/spf13/cobra"

	"github.com/tempora-uz/tempora/modules/timetracking/importer/adapters"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported import format keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSONLine(map[string]any{
				"formats": adapters.DefaultRegistry().Keywords(),
			})
		},
	}
}
