package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vms-e2e/internal/config"
	"vms-e2e/internal/logger"
)

var cfgFile string
var jsonOutput bool
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vms-e2e",
	Short: "End-to-end test toolkit for the VMS server",
	Long: `Create and tear down cameras, archives, detectors, macros and layouts,
drive the alert lifecycle, and watch what the web client does through a
sniffing proxy.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		config.InitConfig(cfgFile)
		level := viper.GetString("log_level")
		if verbose {
			level = "debug"
		}
		logger.InitLogger(logger.Options{
			Level: level,
			File:  viper.GetString("log_file"),
		})
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vms-e2e.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests at debug level")
}
