package instance

import (
	"os"

	"github.com/angelmondragon/kasir-pos/pkg/env"
)

const fallbackID = "local"

// GetID names the running API process in logs. KASIR_INSTANCE_ID wins, then
// the platform's DYNO, then the hostname.
func GetID() string {
	if id := env.Get("KASIR_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
