package main

import (
	"github.com/spf13/cobra"

	"github.com/fahim-ahmed05/dotmngr/pkg/commands/unlink"
)

var unlinkCmd = &cobra.Command{
	Use:   "unlink [group...]",
	Short: MsgUnlinkShort,
	Long:  MsgUnlinkLong,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := unlink.Unlink(unlink.Options{
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
