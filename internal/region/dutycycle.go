package region

import "time"

// Join duty-cycle ratios applied before the device joined, based on the time
// elapsed since the device started.
const (
	joinDutyCycleFirstHour    = 100
	joinDutyCycleFirstHours   = 1000
	joinDutyCycleAfterwards   = 10000
	joinDutyCycleFirstPeriod  = time.Hour
	joinDutyCycleSecondPeriod = 11 * time.Hour
)

func joinDutyCycle(elapsed time.Duration) uint16 {
	switch {
	case elapsed < joinDutyCycleFirstPeriod:
		return joinDutyCycleFirstHour
	case elapsed < joinDutyCycleSecondPeriod:
		return joinDutyCycleFirstHours
	default:
		return joinDutyCycleAfterwards
	}
}

// TxDoneParams holds the parameters consumed after a transmission completed.
type TxDoneParams struct {
	Channel int

	Joined              bool
	DutyCycleEnabled    bool
	LastTxIsJoinRequest bool

	// ElapsedTime holds the time elapsed since the device started.
	ElapsedTime time.Duration

	TxTimeOnAir time.Duration

	// TxDone holds the time the transmission completed. The zero value
	// uses the current time of the timer.
	TxDone time.Time
}

// SetBandTxDone records the tx-done time of the band of the given channel.
func (s *State) SetBandTxDone(channel int, joined bool, txDone time.Time) {
	b := s.channelBand(channel)
	if b == nil {
		return
	}

	b.LastTxDone = txDone
	if !joined {
		b.LastJoinTxDone = txDone
	}
}

// CalcBackOff sets the time-off of the band of the given channel, based on
// the time-on-air of the last transmission. The previous time-off of the
// band is replaced.
func (s *State) CalcBackOff(p TxDoneParams) {
	b := s.channelBand(p.Channel)
	if b == nil {
		return
	}

	dc := b.DutyCycle
	b.TimeOff = 0
	b.LastUpdate = s.txDoneTime(p)

	if !p.Joined {
		if jdc := joinDutyCycle(p.ElapsedTime); jdc > dc {
			dc = jdc
		}
		if !p.DutyCycleEnabled && !p.LastTxIsJoinRequest {
			return
		}
	} else if !p.DutyCycleEnabled {
		return
	}

	if dc > 0 {
		b.TimeOff = p.TxTimeOnAir*time.Duration(dc) - p.TxTimeOnAir
	}
}

// OnTransmitComplete records the tx-done time and the back-off of the band
// of the channel used by the last transmission.
func (s *State) OnTransmitComplete(p TxDoneParams) {
	txDone := s.txDoneTime(p)
	p.TxDone = txDone
	s.SetBandTxDone(p.Channel, p.Joined, txDone)
	s.CalcBackOff(p)
}

// UpdateBandTimeOff decreases the time-off of every band by the time elapsed
// since its last update and returns the smallest remaining time-off. A zero
// value means no band is blocked. When the device joined and the duty-cycle
// is disabled, all time-offs are cleared.
func (s *State) UpdateBandTimeOff(joined, dutyCycleEnabled bool) time.Duration {
	var next time.Duration
	now := s.timer.Now()

	for i := range s.bands {
		b := &s.bands[i]

		if joined && !dutyCycleEnabled {
			b.TimeOff = 0
			b.LastUpdate = now
			continue
		}

		elapsed := s.timer.Since(b.LastUpdate)
		if elapsed < 0 {
			elapsed = 0
		}
		if b.TimeOff <= elapsed {
			b.TimeOff = 0
		} else {
			b.TimeOff -= elapsed
		}
		b.LastUpdate = now

		if b.TimeOff > 0 && (next == 0 || b.TimeOff < next) {
			next = b.TimeOff
		}
	}

	return next
}

func (s *State) channelBand(channel int) *Band {
	if channel < 0 || channel >= len(s.channels) {
		return nil
	}
	i := s.channels[channel].Band
	if i < 0 || i >= len(s.bands) {
		return nil
	}
	return &s.bands[i]
}

func (s *State) txDoneTime(p TxDoneParams) time.Time {
	if p.TxDone.IsZero() {
		return s.timer.Now()
	}
	return p.TxDone
}
