package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	dataDir   string
	confDir   string
	outputDir string
)

var RootCmd = &cobra.Command{
	Use:   "table-check",
	Short: "A delimited-file table validation tool",
	Long: `
  _____  _    ____  _     _____        ____ _   _ _____ ____ _  __
 |_   _|/ \  | __ )| |   | ____|      / ___| | | | ____/ ___| |/ /
   | | / _ \ |  _ \| |   |  _| _____| |   | |_| |  _|| |   | ' /
   | |/ ___ \| |_) | |___| |__|_____| |___|  _  | |__| |___| . \
   |_/_/   \_\____/|_____|_____|     \____|_| |_|_____\____|_|\_\

TABLE-CHECK - Delimited File Schema Validator
`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./table-check.yaml)")
	RootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding raw data files")
	RootCmd.PersistentFlags().StringVar(&confDir, "conf-dir", "", "directory holding table definitions and format files")
	RootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory reports are written to")

	viper.BindPFlag("paths.data", RootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("paths.dataconf", RootCmd.PersistentFlags().Lookup("conf-dir"))
	viper.BindPFlag("paths.output", RootCmd.PersistentFlags().Lookup("output-dir"))

	viper.SetDefault("paths.data", "data")
	viper.SetDefault("paths.dataconf", "dataconf")
	viper.SetDefault("paths.output", "output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("table-check")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
