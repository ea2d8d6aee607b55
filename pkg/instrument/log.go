package instrument

import (
	"context"
	"log/slog"

	"github.com/vango-dev/relayed/pkg/relay"
)

// LogObserver returns an Observer that logs every accepted value at level.
// A nil logger uses slog.Default().
func LogObserver(logger *slog.Logger, level slog.Level) relay.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return relay.ObserverFunc(func(name string, value any) {
		logger.Log(context.Background(), level, "cell changed",
			"cell", name,
			"value", value,
		)
	})
}
