package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode            string        `mapstructure:"mode"`
	APIBaseURL      string        `mapstructure:"api_base_url"`
	MediaURL        string        `mapstructure:"media_url"`
	IdentityPath    string        `mapstructure:"identity_path"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ChatPageSize    int           `mapstructure:"chat_page_size"`
	HeartbeatPeriod time.Duration `mapstructure:"heartbeat_period"`
	StubPort        int           `mapstructure:"stub_port"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("api_base_url", "http://localhost:8080/api")
	v.SetDefault("media_url", "ws://localhost:7880/rtc")
	v.SetDefault("identity_path", defaultIdentityPath())
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("chat_page_size", 50)
	v.SetDefault("heartbeat_period", "30s")
	v.SetDefault("stub_port", 8080)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func defaultIdentityPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "huddle.db"
	}
	return home + "/.huddle/identity.db"
}
