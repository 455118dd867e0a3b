package commands

// Root command for the Cobra CLI.
// Registers all subcommands (bot, session, unfollow).

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "insta-pilot",
	Short: "Insta Pilot - scheduled Instagram activity bot",
	Long: `Insta Pilot is a Go bot that automates routine Instagram activity
(feed likes, clip watching, suggested follows, reciprocity-based unfollows)
on fixed daily schedules, with a follow ledger, cooldown-gated actions and
a web status endpoint.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(unfollowCmd)
}
