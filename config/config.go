package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Server struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type OpenAI struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

type Audit struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type Config struct {
	Server Server `mapstructure:"server"`
	OpenAI OpenAI `mapstructure:"openai"`
	Audit  Audit  `mapstructure:"audit"`
}

func LoadConfig() *Config {
	viper.SetConfigFile("./config/config.yaml")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	// the env replacer maps openai.api_key to OPENAI_API_KEY
	if key := viper.GetString("openai.api_key"); key != "" {
		config.OpenAI.APIKey = key
	}

	if config.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}
	if config.OpenAI.Model == "" {
		config.OpenAI.Model = "gpt-4o"
	}
	if config.OpenAI.Temperature == 0 {
		config.OpenAI.Temperature = 0.7
	}
	if config.OpenAI.MaxTokens == 0 {
		config.OpenAI.MaxTokens = 500
	}

	return &config
}
