package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/litmap/internal/config"
)

const apiKeyField = "textgen.api_key"

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify litmap configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/litmap/config.yaml
Project-specific overrides can be placed in .litmap.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			return displayAllConfig(w, cfg)
		case 1:
			return displayConfigKey(w, cfg, args[0])
		default:
			return setConfigKey(w, cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values with secrets masked.
func displayAllConfig(w io.Writer, c *config.Config) error {
	for _, key := range config.Keys() {
		value, err := displayValue(c, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s\n", key, value)
	}

	fmt.Fprintf(w, "\n%s %s\n", color.New(color.Faint).Sprint("api key source:"), config.GetAPIKeySource(c))
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Fprintf(w, "%s %s\n", color.New(color.Faint).Sprint("project config:"), project)
	}
	return nil
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(w io.Writer, c *config.Config, key string) error {
	value, err := displayValue(c, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, value)
	return nil
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(w io.Writer, c *config.Config, key, value string) error {
	if key == apiKeyField {
		if err := config.ValidateAPIKey(value); err != nil {
			return err
		}
	}
	if err := c.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	shown := value
	if key == apiKeyField {
		shown = config.MaskAPIKey(value)
	}
	printStatus(w, "✓", fmt.Sprintf("Set %s = %s", key, shown), color.FgGreen)
	return nil
}

func displayValue(c *config.Config, key string) (string, error) {
	if key == apiKeyField {
		apiKey, _ := config.GetAPIKey(c)
		return config.MaskAPIKey(apiKey), nil
	}
	return c.Get(key)
}
