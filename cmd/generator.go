package cmd

import (
	"fmt"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/adwikataware/Hackcrypt/internal/message"
	"github.com/adwikataware/Hackcrypt/internal/registry"
)

// generateCommands builds the command tree based on registered modules
func generateCommands(root *cobra.Command) {
	hierarchy := registry.GetHierarchy()

	// Create the full platform->category->module hierarchy
	for platform, categories := range hierarchy {
		platformCmd := &cobra.Command{
			Use:   platform,
			Short: fmt.Sprintf("%s platform commands", platform),
		}

		for category, modules := range categories {
			categoryCmd := &cobra.Command{
				Use:   category,
				Short: fmt.Sprintf("%s commands for %s", category, platform),
			}

			for _, module := range modules {
				generateModuleCommand(module, categoryCmd)
			}

			platformCmd.AddCommand(categoryCmd)
		}

		root.AddCommand(platformCmd)
	}
}

func generateModuleCommand(moduleName string, parent *cobra.Command) {
	entry, ok := registry.GetRegistryEntry(moduleName)
	if !ok {
		return
	}

	cmd := &cobra.Command{
		Use:   moduleName,
		Short: entry.Module.Metadata().Description,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModule(cmd, entry.Module)
		},
	}

	// Track parameter names so shared params are only added once
	paramNames := make(map[string]bool)

	for _, param := range entry.Module.Params() {
		if paramNames[param.Name()] {
			continue
		}
		paramNames[param.Name()] = true

		addFlag(cmd, param)
	}

	parent.AddCommand(cmd)
}

// isShorthandAvailable checks if a shorthand flag is already in use
func isShorthandAvailable(flags *pflag.FlagSet, shorthand string) bool {
	if shorthand == "" {
		return false
	}
	found := false
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Shorthand == shorthand {
			found = true
		}
	})
	return !found
}

func addFlag(cmd *cobra.Command, param cfg.Param) {
	name := param.Name()
	shorthand := ""
	// Only use first character of shortcode as shorthand if available
	if sc := param.Shortcode(); len(sc) > 0 {
		potentialShorthand := string(sc[0])
		if isShorthandAvailable(cmd.Flags(), potentialShorthand) {
			shorthand = potentialShorthand
		}
	}
	description := param.Description()

	// Add (required) to description if param is required
	if param.Required() {
		description = description + " (required)"
	}

	switch param.Type() {
	case "string":
		defaultVal := ""
		if param.HasDefault() {
			defaultVal, _ = cfg.As[string](param.Value())
		}
		if shorthand != "" {
			cmd.Flags().StringP(name, shorthand, defaultVal, description)
		} else {
			cmd.Flags().String(name, defaultVal, description)
		}
	case "int":
		defaultVal := 0
		if param.HasDefault() {
			defaultVal, _ = cfg.As[int](param.Value())
		}
		if shorthand != "" {
			cmd.Flags().IntP(name, shorthand, defaultVal, description)
		} else {
			cmd.Flags().Int(name, defaultVal, description)
		}
	case "bool":
		defaultVal := false
		if param.HasDefault() {
			defaultVal, _ = cfg.As[bool](param.Value())
		}
		if shorthand != "" {
			cmd.Flags().BoolP(name, shorthand, defaultVal, description)
		} else {
			cmd.Flags().Bool(name, defaultVal, description)
		}
	case "[]string":
		defaultVal := []string{}
		if param.HasDefault() {
			defaultVal, _ = cfg.As[[]string](param.Value())
		}
		if shorthand != "" {
			cmd.Flags().StringSliceP(name, shorthand, defaultVal, description)
		} else {
			cmd.Flags().StringSlice(name, defaultVal, description)
		}
	}

	if param.Required() {
		cmd.MarkFlagRequired(name)
	}
}

func runModule(cmd *cobra.Command, module chain.Module) error {
	// Convert flags to configs; the backend URL also honors the config
	// file and HACKCRYPT_BACKEND_URL when the flag is left at its default
	var configs []cfg.Config
	if backend := viper.GetString("backend_url"); backend != "" && !cmd.Flags().Changed("backend-url") {
		configs = append(configs, cfg.WithArg("backend-url", backend))
	}

	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if flag.Changed {
			name := flag.Name

			switch flag.Value.Type() {
			case "bool":
				value, _ := cmd.Flags().GetBool(name)
				configs = append(configs, cfg.WithArg(name, value))
			case "int":
				value, _ := cmd.Flags().GetInt(name)
				configs = append(configs, cfg.WithArg(name, value))
			case "stringSlice":
				value, _ := cmd.Flags().GetStringSlice(name)
				configs = append(configs, cfg.WithArg(name, value))
			case "string":
				value, _ := cmd.Flags().GetString(name)
				configs = append(configs, cfg.WithArg(name, value))
			default:
				// Fallback to string representation
				configs = append(configs, cfg.WithArg(name, flag.Value.String()))
			}
		}
	})

	message.Section("Running module %s", module.Metadata().Name)
	module.Run(configs...)
	return module.Error()
}
