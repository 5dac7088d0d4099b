package simulator

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uc = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_uplink_count",
		Help: "The number of transmitted uplinks (per data-rate).",
	}, []string{"dr"})
	jrc = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulator_join_request_count",
		Help: "The number of transmitted join-requests.",
	})
	dc = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulator_downlink_count",
		Help: "The number of received downlinks.",
	})
	cbc = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulator_channel_busy_count",
		Help: "The number of channel selections which found all channels busy.",
	})
)

func uplinkCounter(dr int) prometheus.Counter {
	return uc.With(prometheus.Labels{"dr": strconv.Itoa(dr)})
}

func joinRequestCounter() prometheus.Counter {
	return jrc
}

func downlinkCounter() prometheus.Counter {
	return dc
}

func channelBusyCounter() prometheus.Counter {
	return cbc
}
