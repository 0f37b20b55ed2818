package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskcheck/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write an annotated starter configuration to ~/.config/taskcheck/taskcheck.yaml.

The starter config defines a standard work-week time map and the default
scheduler settings. Existing configuration files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteStarter()
		if err != nil {
			return err
		}
		fmt.Printf("Wrote starter configuration to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
