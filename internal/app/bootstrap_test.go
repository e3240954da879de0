package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/app"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/config"
)

func TestBootstrap_DBDown(t *testing.T) {
	cfg := &config.Config{
		DBHost:                     "localhost",
		DBPort:                     54322, // closed port
		DBUser:                     "test",
		DBPass:                     "test",
		DBName:                     "test",
		BootstrapRetryAttempts:     1,
		BootstrapRetryDelaySeconds: 0,
	}

	start := time.Now()
	deps, err := app.Bootstrap(context.Background(), cfg)
	duration := time.Since(start)

	assert.Error(t, err)
	assert.Nil(t, deps)
	assert.Contains(t, err.Error(), "failed to ping db")
	assert.Less(t, duration, 2*time.Second)
}

// flakySchemaClient fails a fixed number of times before succeeding.
type flakySchemaClient struct {
	failures int
	calls    int
}

func (f *flakySchemaClient) ClassExists(ctx context.Context, className string) (bool, error) {
	f.calls++
	if f.calls <= f.failures {
		return false, errors.New("connection refused")
	}
	return true, nil
}

func (f *flakySchemaClient) CreateClass(ctx context.Context, class *models.Class) error {
	return nil
}

func (f *flakySchemaClient) GetClass(ctx context.Context, className string) (*models.Class, error) {
	return &models.Class{Class: className}, nil
}

func (f *flakySchemaClient) AddProperty(ctx context.Context, className string, property *models.Property) error {
	return nil
}

func TestEnsureSchemaWithRetry(t *testing.T) {
	t.Run("Recovers After Transient Failures", func(t *testing.T) {
		client := &flakySchemaClient{failures: 2}
		err := app.EnsureSchemaWithRetry(context.Background(), client, 5, time.Millisecond)
		assert.NoError(t, err)
	})

	t.Run("Gives Up After Attempts", func(t *testing.T) {
		client := &flakySchemaClient{failures: 100}
		err := app.EnsureSchemaWithRetry(context.Background(), client, 3, time.Millisecond)
		assert.Error(t, err)
		assert.Equal(t, 3, client.calls)
	})
}
