// Package util holds the environment switches shared by the client
// packages.
package util

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// DebugEnabled reports whether EFRIS_DEBUG asks for debug-level logs.
func DebugEnabled() bool {
	return boolEnv("EFRIS_DEBUG")
}

// HttpTraceEnabled reports whether EFRIS_HTTP_TRACE asks for full
// request/response dumps. Traces include decrypted payloads, so this
// stays off unless set explicitly.
func HttpTraceEnabled() bool {
	return boolEnv("EFRIS_HTTP_TRACE")
}

func boolEnv(name string) bool {
	b, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && b
}

// GetEnvOrFailed returns the value of a required environment variable,
// exiting with a fatal log when it is missing.
func GetEnvOrFailed(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		log.WithField("component", "efris.util").Fatalf("%s environment variable is not set", key)
	}
	return v
}
