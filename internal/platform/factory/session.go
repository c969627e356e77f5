// Package factory selects the remote session driver from configuration.
package factory

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/config"
	"github.com/tgshelf/tgshelf/internal/remote"
	"github.com/tgshelf/tgshelf/internal/remote/tdbridge"
)

// NewSessionFactory builds the remote.Factory named by cfg.SessionDriver.
func NewSessionFactory(cfg *config.Config, log zerolog.Logger) (remote.Factory, error) {
	switch cfg.SessionDriver {
	case "tdbridge":
		return tdbridge.NewFactory(tdbridge.Config{
			BaseURL: cfg.BridgeURL,
			APIID:   cfg.APIID,
			APIHash: cfg.APIHash,
			Timeout: 5 * time.Minute,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_DRIVER: %s", cfg.SessionDriver)
	}
}
