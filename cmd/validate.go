package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrowgate/chip8/internal/config"
)

// validateConfigCmd loads config.toml, applies the preset, validates
// it, and prints the resolved tree without starting the interpreter.
var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "load and validate config.toml without starting the interpreter",
	Args:  cobra.NoArgs,
	RunE:  runValidateConfig,
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFileName)
	if err != nil {
		return err
	}
	fmt.Printf("%+v\n", cfg)
	return nil
}
