// +build windows

package cmd

import (
	"github.com/pkg/errors"

	"github.com/brocaar/chirpstack-region/internal/config"
)

func setSyslog() error {
	if config.C.General.LogToSyslog {
		return errors.New("log_to_syslog is not supported on Windows")
	}

	return nil
}
