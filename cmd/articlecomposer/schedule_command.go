package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScheduleCommand(cc *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "schedule [title...]",
		Short: "Show the publish dates a run would assign without generating anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			application, cfg, err := cc.open(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			requests, err := collectRequests(args, file, cfg)
			if err != nil {
				return err
			}

			planned, err := application.Preview(ctx, requests)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSchedule(planned, cfg.Schedule.Location()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a list of {title, summary, scheduledFor}")
	return cmd
}
