package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voxreel/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List the languages the voice model supports",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := language.Supported()
			rows := make([][]string, 0, len(codes))
			for _, code := range codes {
				rows = append(rows, []string{code, language.DisplayName(code)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Language"}, rows,
				[]columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}
