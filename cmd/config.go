package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josephgoksu/atomize/models"
	"github.com/josephgoksu/atomize/types"
)

const (
	configName = ".atomize"
	envPrefix  = "ATOMIZE"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	// Environment variable handling must be set up before reading the
	// config file, so env vars can influence config loading.
	viper.SetEnvPrefix(envPrefix) // e.g., ATOMIZE_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home) // $HOME/.atomize.yaml
		}
		viper.AddConfigPath(".") // ./.atomize.yaml
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
				os.Exit(1)
			}
			// No config file found by search paths, which is fine.
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
			os.Exit(1)
		}
	}

	viper.SetDefault("log.level", "info")
	viper.SetDefault("defaults.rounding", "")
	viper.SetDefault("defaults.minimumTaskPoints", 0)
	viper.SetDefault("defaults.continueOnError", false)

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	if err := models.ValidateStruct(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the global application configuration.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
