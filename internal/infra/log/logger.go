// Package logs builds the process-wide slog logger.
package logs

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"alerts/config"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In

	Config *config.Config
}

// New creates and initializes slog.Logger
func New(params Params) (*slog.Logger, error) {
	return newLogger(os.Stdout, params.Config)
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Env.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redactAttr}

	var handler slog.Handler
	if cfg.Env.Log.Pretty {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Env.ServiceName != "" {
		logger = logger.With(slog.String("service", cfg.Env.ServiceName))
	}

	return logger, nil
}

// Subscription key material never reaches the log output.
//
//nolint:gochecknoglobals
var secretAttrKeys = map[string]struct{}{
	"p256dh":            {},
	"auth":              {},
	"private_key":       {},
	"privateKey":        {},
	"vapid_private_key": {},
	"authorization":     {},
}

const redacted = "[REDACTED]"

// redactAttr blanks secret attributes and cuts push endpoints down to their
// origin, since the path of a push endpoint is a bearer capability.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if _, ok := secretAttrKeys[a.Key]; ok {
		return slog.String(a.Key, redacted)
	}
	if a.Key == "endpoint" && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, endpointOrigin(a.Value.String()))
	}

	return a
}

func endpointOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return redacted
	}
	if u.Path == "" || u.Path == "/" {
		return u.Scheme + "://" + u.Host
	}

	return u.Scheme + "://" + u.Host + "/..."
}

// parseLogLevel converts string log level to slog.Level; empty means info
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}
