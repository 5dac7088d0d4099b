// Package simulator implements an end-device MAC loop driving the region
// engine on a simulated clock.
package simulator

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/adr"
	"github.com/brocaar/chirpstack-region/internal/config"
	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/chirpstack-region/internal/maccommand"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/chirpstack-region/internal/timer"
)

const (
	// maxChannelAttempts holds the max. number of channel selections for a
	// single uplink.
	maxChannelAttempts = 64

	// busyBackOff holds the wait time after all channels were found busy.
	busyBackOff = time.Second

	// joinRequestSize holds the PHYPayload size of a join-request.
	joinRequestSize = 23

	minRxSymbols = 6
	rxError      = 10 * time.Millisecond
	wakeupTime   = 3 * time.Millisecond
)

// Report holds the outcome of a simulation run.
type Report struct {
	Uplinks      int `yaml:"uplinks"`
	JoinRequests int `yaml:"join_requests"`

	// Channels and Datarates hold the number of uplinks per channel and
	// data-rate.
	Channels  map[int]int `yaml:"channels"`
	Datarates map[int]int `yaml:"datarates"`

	Delayed    int           `yaml:"delayed"`
	TotalDelay time.Duration `yaml:"total_delay"`
	TimeOnAir  time.Duration `yaml:"time_on_air"`
	Busy       int           `yaml:"busy"`
	Answers    int           `yaml:"answers"`

	Session     maccommand.Session `yaml:"session"`
	ChannelMask region.Mask        `yaml:"channel_mask"`
	Duration    time.Duration      `yaml:"duration"`
}

// Simulator drives the region engine for a number of uplinks.
type Simulator struct {
	state *region.State
	timer *timer.Manual
	adr   adr.Handler
	conf  config.Config

	sess        maccommand.Session
	joined      bool
	ackCounter  uint32
	cfList      []byte
	macCommands map[int][]byte
	repeater    bool

	aggregatedTimeOff time.Duration
	lastAggregatedTx  time.Time
	start             time.Time
}

// New creates a new Simulator. The region state must use the given timer.
func New(s *region.State, t *timer.Manual, h adr.Handler, c config.Config) (*Simulator, error) {
	sim := Simulator{
		state:       s,
		timer:       t,
		adr:         h,
		conf:        c,
		sess:        maccommand.NewSession(s),
		joined:      c.Simulator.Joined,
		macCommands: make(map[int][]byte),
		repeater:    c.Region.RepeaterCompatible,
		start:       t.Now(),
	}
	sim.sess.ADR = c.Simulator.ADR

	if c.Simulator.CFList != "" {
		b, err := hex.DecodeString(c.Simulator.CFList)
		if err != nil {
			return nil, errors.Wrap(err, "decode cflist error")
		}
		sim.cfList = b
	}

	for _, mc := range c.Simulator.MACCommands {
		b, err := hex.DecodeString(mc.Payload)
		if err != nil {
			return nil, errors.Wrapf(err, "decode mac-commands of uplink %d error", mc.AtUplink)
		}
		sim.macCommands[mc.AtUplink] = append(sim.macCommands[mc.AtUplink], b...)
	}

	return &sim, nil
}

// Run runs the simulation.
func (sim *Simulator) Run(ctx context.Context) (Report, error) {
	ctx, err := logging.NewContext(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "new context error")
	}

	rep := Report{
		Channels:  make(map[int]int),
		Datarates: make(map[int]int),
	}

	logging.WithContext(ctx).WithFields(log.Fields{
		"device_id": sim.conf.Simulator.DeviceID,
		"region":    sim.state.Profile().Name,
		"uplinks":   sim.conf.Simulator.Uplinks,
		"joined":    sim.joined,
	}).Info("simulator: starting simulation")

	if !sim.joined {
		if err := sim.join(ctx, &rep); err != nil {
			return rep, errors.Wrap(err, "join error")
		}
	}

	for i := 0; i < sim.conf.Simulator.Uplinks; i++ {
		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		default:
		}

		if err := sim.uplink(ctx, i, &rep); err != nil {
			return rep, errors.Wrapf(err, "uplink %d error", i)
		}
		sim.timer.Advance(sim.conf.Simulator.Interval)
	}

	rep.Session = sim.sess
	rep.ChannelMask = sim.state.Mask(region.ActiveMask)
	rep.Duration = sim.timer.Since(sim.start)

	logging.WithContext(ctx).WithFields(log.Fields{
		"uplinks":     rep.Uplinks,
		"delayed":     rep.Delayed,
		"total_delay": rep.TotalDelay,
		"time_on_air": rep.TimeOnAir,
		"dr":          rep.Session.DR,
	}).Info("simulator: simulation completed")

	return rep, nil
}

// join sends join-requests until one is accepted. The first join-request on
// the simulated network is always accepted.
func (sim *Simulator) join(ctx context.Context, rep *Report) error {
	trial := 1
	dr := sim.state.AlternateDr(trial)

	ch, err := sim.selectChannel(ctx, dr, rep)
	if err != nil {
		return err
	}

	if _, err := sim.transmit(ch, dr, true, rep); err != nil {
		return err
	}
	rep.JoinRequests++
	joinRequestCounter().Inc()

	sim.timer.Advance(sim.state.GetPhyParam(region.AttrJoinAcceptDelay1, 0).Duration)
	sim.joined = true
	sim.aggregatedTimeOff = 0

	if sim.cfList != nil {
		res := sim.state.ApplyCFList(sim.cfList)
		logging.WithContext(ctx).WithFields(log.Fields{
			"applied":  res.Applied,
			"added":    res.Added,
			"removed":  res.Removed,
			"rejected": len(res.Rejected),
		}).Info("simulator: cflist applied")
	}

	logging.WithContext(ctx).WithFields(log.Fields{
		"channel": ch,
		"dr":      dr,
	}).Info("simulator: device joined")

	return nil
}

func (sim *Simulator) uplink(ctx context.Context, i int, rep *Report) error {
	resp, err := sim.adr.Handle(adr.HandleRequest{
		ADR:               sim.sess.ADR,
		DR:                sim.sess.DR,
		TxPowerIndex:      sim.sess.TxPowerIndex,
		AckCounter:        sim.ackCounter,
		UpdateChannelMask: sim.conf.Simulator.ADRUpdateChannelMask,
	})
	if err != nil {
		return errors.Wrap(err, "adr handle error")
	}
	sim.sess.DR = resp.DR
	sim.sess.TxPowerIndex = resp.TxPowerIndex
	sim.ackCounter = resp.AckCounter

	ch, err := sim.selectChannel(ctx, sim.sess.DR, rep)
	if err != nil {
		return err
	}

	for n := 0; n < sim.sess.NbTrans; n++ {
		if n > 0 {
			if ch, err = sim.selectChannel(ctx, sim.sess.DR, rep); err != nil {
				return err
			}
		}
		if _, err := sim.transmit(ch, sim.sess.DR, false, rep); err != nil {
			return err
		}
	}
	rep.Uplinks++

	logging.WithContext(ctx).WithFields(log.Fields{
		"uplink":         i,
		"channel":        ch,
		"dr":             sim.sess.DR,
		"tx_power_index": sim.sess.TxPowerIndex,
		"ack_request":    resp.AckRequest,
		"ack_counter":    sim.ackCounter,
	}).Debug("simulator: uplink sent")

	return sim.receive(ctx, i, ch, rep)
}

// receive opens the RX1 window and handles the downlink, if any.
func (sim *Simulator) receive(ctx context.Context, i, ch int, rep *Report) error {
	rxDR := sim.state.ApplyDrOffset(sim.sess.DR, sim.sess.RX1DROffset)
	win := sim.state.ComputeRxWindowParameters(rxDR, minRxSymbols, rxError, wakeupTime)

	sim.timer.Advance(sim.sess.RXDelay1 + win.WindowOffset)
	if _, err := sim.state.RxConfig(region.RxConfigParams{
		Channel:       ch,
		Datarate:      win.Datarate,
		Window:        0,
		WindowTimeout: win.WindowTimeout,
		Repeater:      sim.repeater,
	}); err != nil {
		return errors.Wrap(err, "rx config error")
	}

	b, hasMACCommands := sim.macCommands[i]
	ack := sim.conf.Simulator.AckEvery > 0 && (i+1)%sim.conf.Simulator.AckEvery == 0

	if !hasMACCommands && !ack {
		sim.ackCounter++
		return nil
	}

	// any downlink resets the ack counter
	sim.ackCounter = 0
	downlinkCounter().Inc()

	if !hasMACCommands {
		return nil
	}

	resp, err := maccommand.Handle(ctx, sim.state, &sim.sess, b)
	if err != nil {
		return errors.Wrap(err, "handle mac-commands error")
	}
	rep.Answers += len(resp.Answers)

	return nil
}

// selectChannel selects the next channel, waiting on the simulated clock
// until a channel becomes available.
func (sim *Simulator) selectChannel(ctx context.Context, dr int, rep *Report) (int, error) {
	for n := 0; n < maxChannelAttempts; n++ {
		res, err := sim.state.NextChannel(region.NextChannelParams{
			Joined:            sim.joined,
			DutyCycleEnabled:  sim.state.Profile().DutyCycleEnabled,
			Datarate:          dr,
			AggregatedTimeOff: sim.aggregatedTimeOff,
			LastAggregatedTx:  sim.lastAggregatedTx,
		})
		sim.aggregatedTimeOff = res.AggregatedTimeOff

		if errors.Cause(err) == region.ErrNoFreeChannel {
			rep.Busy++
			channelBusyCounter().Inc()
			sim.timer.Advance(busyBackOff)
			continue
		}
		if err != nil {
			return 0, errors.Wrap(err, "next channel error")
		}

		if res.Found {
			return res.Channel, nil
		}

		logging.WithContext(ctx).WithFields(log.Fields{
			"dr":    dr,
			"delay": res.Delay,
		}).Debug("simulator: channel selection delayed")

		rep.Delayed++
		rep.TotalDelay += res.Delay
		sim.timer.Advance(res.Delay)
	}

	return 0, errors.New("max. channel selection attempts reached")
}

func (sim *Simulator) transmit(ch, dr int, joinRequest bool, rep *Report) (time.Duration, error) {
	pktLen := sim.conf.Simulator.PayloadSize + region.FRMPayloadOverhead
	if joinRequest {
		pktLen = joinRequestSize
	}

	res, err := sim.state.TxConfig(region.TxConfigParams{
		Channel:     ch,
		Datarate:    dr,
		TxPower:     sim.sess.TxPowerIndex,
		AntennaGain: sim.state.Profile().DefaultAntennaGain,
		PktLen:      pktLen,
	})
	if err != nil {
		return 0, errors.Wrap(err, "tx config error")
	}

	sim.timer.Advance(res.TimeOnAir)
	sim.state.OnTransmitComplete(region.TxDoneParams{
		Channel:             ch,
		Joined:              sim.joined,
		DutyCycleEnabled:    sim.state.Profile().DutyCycleEnabled,
		LastTxIsJoinRequest: joinRequest,
		ElapsedTime:         sim.timer.Since(sim.start),
		TxTimeOnAir:         res.TimeOnAir,
	})

	if sim.sess.MaxDutyCycle > 0 {
		sim.aggregatedTimeOff = res.TimeOnAir*time.Duration(1<<sim.sess.MaxDutyCycle) - res.TimeOnAir
		sim.lastAggregatedTx = sim.timer.Now()
	}

	rep.Channels[ch]++
	rep.Datarates[dr]++
	rep.TimeOnAir += res.TimeOnAir
	uplinkCounter(dr).Inc()

	return res.TimeOnAir, nil
}
