package main

import (
	"github.com/spf13/cobra"

	"github.com/fahim-ahmed05/dotmngr/pkg/commands/apply"
)

var applyCmd = &cobra.Command{
	Use:   "apply [group...]",
	Short: MsgApplyShort,
	Long:  MsgApplyLong,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := apply.Apply(apply.Options{
			ConfigPath: configPath,
			Groups:     args,
			DryRun:     dryRun,
		})
		if result != nil {
			if result.StateReset {
				printStateReset()
			}
			printReport(result.Report)
		}
		return err
	},
}
