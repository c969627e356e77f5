package gateway

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/remote"
)

// LogProgress returns a ProgressFunc that reports transfer progress through
// the given logger at most once per interval, plus a final report when the
// transfer completes. It exists so transfer visibility is an explicit event
// stream rather than a side effect buried in the protocol driver.
func LogProgress(log zerolog.Logger, interval time.Duration) remote.ProgressFunc {
	var last time.Time
	return func(transferred, total int64) {
		done := total >= 0 && transferred >= total
		if !done && time.Since(last) < interval {
			return
		}
		last = time.Now()
		log.Debug().Int64("transferred", transferred).Int64("total", total).Msg("media transfer progress")
	}
}
