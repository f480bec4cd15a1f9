// Package logging configures the server's structured logger. Debug/
// Info/Warn/Error mirror the four levels the original server's LOG macro
// supported; logrus gives each a timestamped, leveled line the same way.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logger writing to stderr, matching the original server's
// LOG macro which always wrote there regardless of level.
func New(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// Access logs one completed request the way the teacher's handle()
// logged each connection: method, path, status and duration on a single
// line, at Info level so it survives in production.
func Access(log *logrus.Logger, remoteAddr, method, path string, status int, durationMillis int64) {
	log.WithFields(logrus.Fields{
		"remote_addr": remoteAddr,
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": durationMillis,
	}).Info("request handled")
}
