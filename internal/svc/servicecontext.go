package svc

import (
	"fmt"

	"topcoach/internal/config"
	"topcoach/internal/db"
	"topcoach/internal/glm"
)

// ServiceContext holds the shared dependencies handed to every logic layer
type ServiceContext struct {
	Config config.Config
	DB     *db.Store
	GLM    *glm.Client
}

// NewServiceContext opens the store and constructs the completion client
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	store, err := db.NewSQLite(c.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client := glm.New(glm.Config{
		BaseURL:      c.GLM.BaseURL,
		APIKey:       c.GLM.APIKey,
		ChatModel:    c.GLM.ChatModel,
		SummaryModel: c.GLM.SummaryModel,
		Timeout:      c.GLMTimeout(),
	})

	return &ServiceContext{
		Config: c,
		DB:     store,
		GLM:    client,
	}, nil
}

// Close releases held resources
func (s *ServiceContext) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
