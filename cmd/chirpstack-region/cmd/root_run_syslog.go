// +build !windows

package cmd

import (
	"log/syslog"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	lsyslog "github.com/sirupsen/logrus/hooks/syslog"

	"github.com/brocaar/chirpstack-region/internal/config"
)

const syslogTag = "chirpstack-region"

var syslogSeverities = map[log.Level]syslog.Priority{
	log.TraceLevel: syslog.LOG_DEBUG,
	log.DebugLevel: syslog.LOG_DEBUG,
	log.InfoLevel:  syslog.LOG_INFO,
	log.WarnLevel:  syslog.LOG_WARNING,
	log.ErrorLevel: syslog.LOG_ERR,
	log.FatalLevel: syslog.LOG_CRIT,
	log.PanicLevel: syslog.LOG_CRIT,
}

func setSyslog() error {
	if !config.C.General.LogToSyslog {
		return nil
	}

	hook, err := lsyslog.NewSyslogHook("", "", syslogPriority(log.GetLevel()), syslogTag)
	if err != nil {
		return errors.Wrap(err, "get syslog hook error")
	}

	log.AddHook(hook)

	return nil
}

// syslogPriority returns the user facility priority for the given log level.
func syslogPriority(l log.Level) syslog.Priority {
	sev, ok := syslogSeverities[l]
	if !ok {
		sev = syslog.LOG_INFO
	}
	return syslog.LOG_USER | sev
}
