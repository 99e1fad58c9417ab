package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "keyValue", cfg.StorageType)
	assert.Equal(t, "vendaninja_", cfg.KeyPrefix)
	assert.Equal(t, 5*time.Second, cfg.MongoTimeout)
	assert.Empty(t, cfg.MongoURI)
	assert.True(t, cfg.SeedProducts)
}
