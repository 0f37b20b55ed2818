package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskcheck/pkg/auth"
)

var authRemove bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Google Calendar",
	Long: `Run the Google Calendar OAuth flow and store the resulting token under
~/.config/taskcheck/. Requires credentials.json in the same directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		if authRemove {
			if err := auth.RemoveToken(); err != nil {
				return err
			}
			fmt.Println("Stored token removed.")
			return nil
		}
		if _, err := auth.GetCalendarService(cmd.Context(), log); err != nil {
			return err
		}
		fmt.Println("Authentication successful.")
		return nil
	},
}

func init() {
	authCmd.Flags().BoolVar(&authRemove, "remove", false, "remove the stored token instead of authenticating")
	rootCmd.AddCommand(authCmd)
}
