package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "snake-game",
		Short:        "Snake agent trained with deep Q-learning",
		SilenceUsage: true,
	}
	AddFlags(cmd)

	cmd.AddCommand(
		TrainCommand(),
		ConfigCommand(),
	)

	return cmd
}
