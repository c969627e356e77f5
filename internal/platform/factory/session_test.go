package factory

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgshelf/tgshelf/internal/config"
)

func TestNewSessionFactoryTDBridge(t *testing.T) {
	cfg := &config.Config{SessionDriver: "tdbridge", BridgeURL: "http://localhost:8081"}
	f, err := NewSessionFactory(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestNewSessionFactoryUnsupported(t *testing.T) {
	cfg := &config.Config{SessionDriver: "grpc"}
	_, err := NewSessionFactory(cfg, zerolog.Nop())
	assert.Error(t, err)
}
