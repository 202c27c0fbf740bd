package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logosito/svcs-go/internal/colors"
	"github.com/logosito/svcs-go/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get and set configuration options",
	Long: `Get and set svcs configuration options.

Configuration can be set at two levels:
- Global (~/.svcsconfig) - applies to all repositories
- Repository (.svcs/config) - applies to current repository only

Examples:
  svcs config --list
  svcs config user.name "Your Name"
  svcs config user.email "you@example.com"
  svcs config --global user.name "Your Name"
  svcs config user.name`,
	RunE: runConfig,
}

var (
	configGlobal bool
	configList   bool
)

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "use the global config file")
	configCmd.Flags().BoolVar(&configList, "list", false, "list all configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configList {
		return listConfig()
	}
	switch len(args) {
	case 1:
		return getConfigValue(args[0])
	case 2:
		return setConfigValue(args[0], args[1], configGlobal)
	default:
		return fmt.Errorf("invalid usage, see: svcs config --help")
	}
}

func listConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(colors.Bold("User Configuration:"))
	fmt.Printf("  user.name = %s\n", colors.InfoText(valueOrUnset(cfg.User.Name)))
	fmt.Printf("  user.email = %s\n", colors.InfoText(valueOrUnset(cfg.User.Email)))

	fmt.Println()
	fmt.Println(colors.Bold("Core Configuration:"))
	fmt.Printf("  core.editor = %s\n", colors.InfoText(valueOrUnset(cfg.Core.Editor)))
	fmt.Printf("  core.pager = %s\n", colors.InfoText(valueOrUnset(cfg.Core.Pager)))

	fmt.Println()
	fmt.Println(colors.Bold("Color Configuration:"))
	fmt.Printf("  color.ui = %s\n", colors.InfoText(fmt.Sprintf("%t", cfg.Color.UI)))
	fmt.Printf("  color.status = %s\n", colors.InfoText(fmt.Sprintf("%t", cfg.Color.Status)))
	return nil
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func getConfigValue(key string) error {
	value, err := config.GetValue(key)
	if err != nil {
		return err
	}
	if value == "" {
		fmt.Printf("%s is (not set)\n", key)
		return nil
	}
	fmt.Println(value)
	return nil
}

func setConfigValue(key, value string, global bool) error {
	if err := config.SetValue(key, value, global); err != nil {
		return err
	}
	scope := "repository"
	if global {
		scope = "global"
	}
	fmt.Printf("%s %s config: %s = %s\n", colors.SuccessText("set"), scope, colors.Bold(key), colors.InfoText(value))
	return nil
}
