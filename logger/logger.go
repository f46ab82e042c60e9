package logger

import (
	"strings"

	"github.com/Scalingo/projects-widget/config"
	"github.com/sirupsen/logrus"
)

const appName = "projects-widget"

// Setup will configure logrus logger, every entry carries the app name and the
// github user the widget is displaying
func Setup(cfg config.Config) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.Logs.OutputLogsAsJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.SetLevel(StringToLogrusLogType(cfg.Logs.Level))

	// Setup runs once per command, replacing avoids stacking hooks in tests
	logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	logrus.AddHook(widgetFieldsHook{
		fields: logrus.Fields{
			"app":      appName,
			"username": cfg.Github.Username,
		},
	})
}

// StringToLogrusLogType will convert string to the right logrus level
func StringToLogrusLogType(logLevel string) logrus.Level {
	switch strings.ToLower(logLevel) {
	case "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

// widgetFieldsHook adds its fields to entries that do not set them already
type widgetFieldsHook struct {
	fields logrus.Fields
}

func (h widgetFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h widgetFieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
