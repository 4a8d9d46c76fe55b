package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the run configuration shared by every command and test helper.
// It is loaded once and treated as read-only afterwards.
type Config struct {
	ServerURL      string        `mapstructure:"server_url" validate:"required,url"`
	HostName       string        `mapstructure:"host_name" validate:"required"`
	Username       string        `mapstructure:"username" validate:"required"`
	Password       string        `mapstructure:"password"`
	InsecureTLS    bool          `mapstructure:"insecure_tls"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`

	// Feature flags that select which suites apply to the target server.
	IsCloudTest           bool `mapstructure:"is_cloud_test"`
	ExtendedDetectorsTest bool `mapstructure:"extended_detectors_test"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `mapstructure:"log_file"`

	ProxyListen string `mapstructure:"proxy_listen" validate:"required"`
}

func applyDefaults() {
	viper.SetDefault("server_url", "")
	viper.SetDefault("host_name", "")
	viper.SetDefault("username", "root")
	viper.SetDefault("password", "")
	viper.SetDefault("insecure_tls", true)
	viper.SetDefault("request_timeout", 30*time.Second)
	viper.SetDefault("is_cloud_test", false)
	viper.SetDefault("extended_detectors_test", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("proxy_listen", ":8081")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	applyDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vms-e2e")
	}

	// VMS_E2E_SERVER_URL, VMS_E2E_HOST_NAME, ...
	viper.SetEnvPrefix("VMS_E2E")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: could not read config %s: %v\n", cfgFile, err)
		}
	}
}

// Load unmarshals and validates the configuration collected by InitConfig.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SaveServer persists the target server so later commands can omit the flags.
func SaveServer(serverURL, hostName, username, password string) error {
	viper.Set("server_url", strings.TrimRight(serverURL, "/"))
	viper.Set("host_name", hostName)
	viper.Set("username", username)
	viper.Set("password", password)

	if err := viper.WriteConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		home, _ := os.UserHomeDir()
		return viper.WriteConfigAs(filepath.Join(home, ".vms-e2e.yaml"))
	}
	return nil
}
