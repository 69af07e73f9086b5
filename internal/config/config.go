package config

import (
	"errors"
	"os"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"
)

// LoadFromBytes loads configuration from YAML bytes with environment variable expansion
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := conf.LoadFromYamlBytes([]byte(expanded), &c); err != nil {
		return c, err
	}
	return c, nil
}

type Config struct {
	rest.RestConf
	Auth struct {
		AccessSecret string `json:",optional"`
	}
	Database struct {
		SQLitePath string `json:",default=./data/topcoach.db"`
	}
	GLM struct {
		BaseURL        string `json:",default=https://open.bigmodel.cn/api/paas/v4"`
		APIKey         string `json:",optional"`
		ChatModel      string `json:",default=glm-4"`
		SummaryModel   string `json:",default=glm-4-air"`
		TimeoutSeconds int    `json:",default=60"`
	}
}

// GLMTimeout returns the completion request timeout as a duration
func (c Config) GLMTimeout() time.Duration {
	return time.Duration(c.GLM.TimeoutSeconds) * time.Second
}

// Validate checks the parts of the config that cannot have sane defaults.
// Secrets are injected via environment, so an empty value means a missing env var.
func (c Config) Validate() error {
	if c.GLM.APIKey == "" {
		return errors.New("GLM.APIKey is empty - set GLM_API_KEY in the environment or .env")
	}
	if c.Auth.AccessSecret == "" {
		return errors.New("Auth.AccessSecret is empty - set TOPCOACH_ACCESS_SECRET in the environment or .env")
	}
	return nil
}
