package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	CORS   CORSConfig   `mapstructure:"cors"`
	AI     AIConfig     `mapstructure:"ai"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
	Name   string `mapstructure:"name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type AIConfig struct {
	Provider       string `mapstructure:"provider"`
	APIKey         string `mapstructure:"api_key"`
	ImageAPIKey    string `mapstructure:"image_api_key"`
	CaptionModel   string `mapstructure:"caption_model"`
	ImageModel     string `mapstructure:"image_model"`
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (a AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// ImageKey returns the key for the image-generation model, falling back to
// the caption key when a separate one is not configured.
func (a AIConfig) ImageKey() string {
	if a.ImageAPIKey != "" {
		return a.ImageAPIKey
	}
	return a.APIKey
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("db.name", "photodb")
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout_seconds", 30)

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
