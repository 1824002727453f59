package config

import (
	"encoding/json"
	"os"

	"github.com/cryptora-app/server/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
// Zero values are treated as "not set" so a partial file only overrides what
// it names.
type JsonConfig struct {
	EndpointAddr        string `json:"endpoint_addr"`
	DatabaseDSN         string `json:"database_dsn"`
	RedisAddr           string `json:"redis_addr"`
	RedisPassword       string `json:"redis_password"`
	RateLimitPerMin     int    `json:"rate_limit_per_min"`
	MinPasswordLength   int    `json:"min_password_length"`
	MaxAliasLength      int    `json:"max_alias_length"`
	MaxTitleLength      int    `json:"max_title_length"`
	MaxFolderNameLength int    `json:"max_folder_name_length"`
	MaxContentSize      int    `json:"max_content_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable or invalid
// file panics: starting with a half-applied config is worse than not
// starting.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.RedisPassword != "" {
		config.RedisPassword = c.RedisPassword
	}
	if c.RateLimitPerMin > 0 {
		config.RateLimitPerMin = c.RateLimitPerMin
	}
	if c.MinPasswordLength > 0 {
		config.MinPasswordLength = c.MinPasswordLength
	}
	if c.MaxAliasLength > 0 {
		config.MaxAliasLength = c.MaxAliasLength
	}
	if c.MaxTitleLength > 0 {
		config.MaxTitleLength = c.MaxTitleLength
	}
	if c.MaxFolderNameLength > 0 {
		config.MaxFolderNameLength = c.MaxFolderNameLength
	}
	if c.MaxContentSize > 0 {
		config.MaxContentSize = c.MaxContentSize
	}
}
