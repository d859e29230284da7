package kit

import (
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// NewLogger builds a JSON production logger tagged with the service name.
// An empty level keeps zap's default (info).
func NewLogger(service, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, errors.Wrapf(err, "parse log level %q", level)
		}
		cfg.Level = lvl
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return l, nil
}
