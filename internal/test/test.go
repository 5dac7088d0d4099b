// Package test contains test helpers.
package test

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/config"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// GetConfig returns the test configuration.
func GetConfig() config.Config {
	var c config.Config

	c.Region.Name = "KR920"

	c.Radio.MinFrequency = 920000000
	c.Radio.MaxFrequency = 925000000

	c.Redis.URL = "redis://localhost:6379/1"
	if v := os.Getenv("TEST_REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	c.Redis.KeyPrefix = "test:"

	return c
}
