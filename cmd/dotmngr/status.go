package main

import (
	"github.com/spf13/cobra"

	"github.com/fahim-ahmed05/dotmngr/pkg/commands/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: MsgStatusShort,
	Long:  MsgStatusLong,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := status.Status(status.Options{ConfigPath: configPath})
		if err != nil {
			return err
		}
		printStatus(result)
		return nil
	},
}
