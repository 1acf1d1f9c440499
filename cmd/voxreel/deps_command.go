package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voxreel/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binaries and workspace readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := preflight.CheckSystemDeps(cfg)
			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				detail := status.Command
				if !status.Available {
					state = "missing"
					detail = status.Detail
					if !status.Optional {
						missingRequired = true
					}
				}
				rows = append(rows, []string{
					status.Name, state, yesNo(!status.Optional), detail, status.Description,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Binary", "Status", "Required", "Detail", "Purpose"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))

			for _, result := range preflight.RunAll(cfg) {
				marker := "ok"
				if !result.Passed {
					marker = "FAIL"
					missingRequired = true
				}
				fmt.Fprintf(out, "%-4s %s: %s\n", marker, result.Name, result.Detail)
			}

			if missingRequired {
				return fmt.Errorf("required dependencies or checks are failing")
			}
			return nil
		},
	}
}
