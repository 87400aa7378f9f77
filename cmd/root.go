/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/longkey1/askc/internal/askc/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "askc",
	Short: "A terminal chat client for question/answer services",
	Long: `askc sends your questions to an answer service and shows the replies.
Questions can be typed or spoken, and answers to spoken questions are read aloud.
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
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

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/askc/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("server", "", "answer service base URL (overrides server_url)")
	viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))
}

// userConfigDir returns $HOME/.config/askc
func userConfigDir() string {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	return filepath.Join(home, ".config", "askc")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env file is normal
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error reading env file %s: %v\n", envFile, err)
	} else if err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Loaded env file:", envFile)
	}

	viper.SetEnvPrefix("ASKC")
	viper.AutomaticEnv()

	configDir := userConfigDir()
	config.SetDefaults(viper.GetViper(), filepath.Join(configDir, "transcripts"))

	viper.BindEnv("server_url", "ASKC_SERVER_URL")
	viper.BindEnv("ask_path", "ASKC_ASK_PATH")
	viper.BindEnv("timeout", "ASKC_TIMEOUT")
	viper.BindEnv("single_flight", "ASKC_SINGLE_FLIGHT")
	viper.BindEnv("recognizer_command", "ASKC_RECOGNIZER_COMMAND")
	viper.BindEnv("synthesizer_command", "ASKC_SYNTHESIZER_COMMAND")
	viper.BindEnv("log_file", "ASKC_LOG_FILE")
	viper.BindEnv("log_level", "ASKC_LOG_LEVEL")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// Load system-wide config first (lower priority)
		for _, path := range []string{"/etc/askc", "/usr/local/etc/askc"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			if verbose {
				fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
			}
		}

		// Load user config (higher priority) - merge with system config
		viper.AddConfigPath(configDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
				}
			} else if verbose {
				fmt.Fprintln(os.Stderr, "Merged user config:", viper.ConfigFileUsed())
			}
		} else {
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
				}
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  ASKC_SERVER_URL:", viper.GetString("server_url"))
		fmt.Fprintln(os.Stderr, "  ASKC_ASK_PATH:", viper.GetString("ask_path"))
		fmt.Fprintln(os.Stderr, "  ASKC_SINGLE_FLIGHT:", viper.GetBool("single_flight"))
		fmt.Fprintln(os.Stderr, "  ASKC_RECOGNIZER_COMMAND:", viper.GetString("recognizer_command"))
		fmt.Fprintln(os.Stderr, "  ASKC_SYNTHESIZER_COMMAND:", viper.GetString("synthesizer_command"))
	}
}
