package logger

import (
	"fmt"

	"github.com/raystack/salt/log"
	"github.com/sirupsen/logrus"

	"github.com/jedwards1230/pipelines/config"
)

type plainFormatter int

func (*plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if len(entry.Data) > 0 {
		var data string
		for key, val := range entry.Data {
			data += fmt.Sprintf("%s: %v ", key, val)
		}
		return []byte(fmt.Sprintf("%s %s\n", entry.Message, data)), nil
	}
	return []byte(fmt.Sprintf("%s\n", entry.Message)), nil
}

// NewDefaultLogger initializes plain logger at info level
func NewDefaultLogger() log.Logger {
	return log.NewLogrus(
		log.LogrusWithLevel("info"),
		log.LogrusWithFormatter(new(plainFormatter)),
	)
}

// NewClientLogger initializes client logger based on log configuration
func NewClientLogger(logConfig config.LogConfig) log.Logger {
	if logConfig.Level == "" {
		return NewDefaultLogger()
	}
	if logConfig.Format == "json" {
		return log.NewLogrus(
			log.LogrusWithLevel(logConfig.Level),
			log.LogrusWithFormatter(new(logrus.JSONFormatter)),
		)
	}
	return log.NewLogrus(
		log.LogrusWithLevel(logConfig.Level),
		log.LogrusWithFormatter(new(plainFormatter)),
	)
}
