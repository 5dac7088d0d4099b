package maccommand

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/brocaar/lorawan"
)

var (
	mch = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maccommand_handled_count",
		Help: "The number of handled downlink mac-commands (per CID).",
	}, []string{"cid"})
	mcr = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maccommand_rejected_count",
		Help: "The number of mac-commands which were not fully accepted (per CID).",
	}, []string{"cid"})
	mcu = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maccommand_unknown_count",
		Help: "The number of unknown mac-commands.",
	})
)

func handledCounter(cid lorawan.CID) prometheus.Counter {
	return mch.With(prometheus.Labels{"cid": cid.String()})
}

func rejectedCounter(cid lorawan.CID) prometheus.Counter {
	return mcr.With(prometheus.Labels{"cid": cid.String()})
}

func unknownCounter() prometheus.Counter {
	return mcu
}
