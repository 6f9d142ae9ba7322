package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uniclear/clearance/pkg/cli/internal/output"
	"github.com/uniclear/clearance/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets redacted",
	Long: `Print the effective configuration with secrets redacted.

The output is the merge of defaults, the config file and CLEARANCE_*
environment variables, as YAML (or JSON with --json).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		redacted := cfg.Redacted()
		if jsonOutput {
			return output.JSON(redacted)
		}
		data, err := config.ToYAML(redacted)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		var warnings []string
		if err := cfg.RequireBaseURL(); err != nil {
			warnings = append(warnings, "baseURL is not set; remote calls will fail")
		}
		if cfg.Username == "" || cfg.SessionToken == "" {
			warnings = append(warnings, "no session credential configured")
		} else if _, err := cfg.Credential(); err != nil {
			return err
		}

		result := struct {
			Valid    bool     `json:"valid"`
			Warnings []string `json:"warnings,omitempty"`
		}{Valid: true, Warnings: warnings}

		return printResult(result, func() {
			for _, w := range warnings {
				output.Warn("%s", w)
			}
			fmt.Println("Configuration is valid")
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}
