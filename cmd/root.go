package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adwikataware/Hackcrypt/internal/logs"
	"github.com/adwikataware/Hackcrypt/internal/message"
)

var (
	cfgFile     string
	quietFlag   bool
	noColorFlag bool
	logLevel    string
	logToFile   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hackcrypt",
	Short: "Hackcrypt is a CLI client for deepfake detection and media protection.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		message.SetQuiet(quietFlag)
		message.SetNoColor(noColorFlag)
		if logToFile {
			slog.SetDefault(logs.FileLogger())
		} else {
			logs.ConsoleLogger(logLevel)
		}

		if !quietFlag {
			message.Banner()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hackcrypt.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress banner and status messages")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-file", false, "write debug logs to hackcrypt.log instead of the console")

	generateCommands(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".hackcrypt" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hackcrypt")
	}

	viper.SetEnvPrefix("HACKCRYPT")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
