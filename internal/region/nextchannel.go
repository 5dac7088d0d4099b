package region

import "time"

// NextChannelParams holds the parameters for selecting the next uplink
// channel.
type NextChannelParams struct {
	Joined           bool
	DutyCycleEnabled bool
	Datarate         int

	// AggregatedTimeOff holds the device-wide time-off and
	// LastAggregatedTx the time it was last set.
	AggregatedTimeOff time.Duration
	LastAggregatedTx  time.Time
}

// NextChannelResult holds the selection outcome. When Found is false, the
// caller must retry after Delay.
type NextChannelResult struct {
	Found   bool
	Channel int
	Delay   time.Duration

	// AggregatedTimeOff holds the device-wide time-off the caller must
	// persist.
	AggregatedTimeOff time.Duration
}

// NextChannel selects a random channel usable for the given data-rate.
// It returns ErrDatarateNotSupported when no channel supports the data-rate
// and no channel is delayed by its band, and ErrNoFreeChannel when
// carrier-sense is enabled and every eligible channel is busy.
func (s *State) NextChannel(p NextChannelParams) (NextChannelResult, error) {
	out := NextChannelResult{
		Channel:           -1,
		AggregatedTimeOff: p.AggregatedTimeOff,
	}

	elapsed := s.timer.Since(p.LastAggregatedTx)
	if p.AggregatedTimeOff > elapsed {
		out.Delay = p.AggregatedTimeOff - elapsed
		return out, nil
	}

	out.AggregatedTimeOff = 0
	delay := s.UpdateBandTimeOff(p.Joined, p.DutyCycleEnabled)

	mask := s.active
	if s.profile.UseRemainingMask {
		mask = s.remaining
	}

	enabled, delayed := s.countEnabledChannels(p.Joined, p.Datarate, mask)
	if s.profile.UseRemainingMask && len(enabled) == 0 && delayed == 0 {
		s.remaining.copyFrom(s.active)
		enabled, delayed = s.countEnabledChannels(p.Joined, p.Datarate, s.remaining)
	}

	if len(enabled) == 0 {
		if delayed > 0 {
			out.Delay = delay
			return out, nil
		}
		return out, ErrDatarateNotSupported
	}

	ch, ok := s.pickChannel(enabled)
	if !ok {
		return out, ErrNoFreeChannel
	}

	if s.profile.UseRemainingMask {
		s.remaining.Clear(ch)
	}

	out.Found = true
	out.Channel = ch
	return out, nil
}

// countEnabledChannels returns the ids of the channels usable for the given
// data-rate and the number of channels that are only blocked by the
// time-off of their band.
func (s *State) countEnabledChannels(joined bool, dr int, mask Mask) ([]int, int) {
	var enabled []int
	var delayed int

	for id := range s.channels {
		if !s.enabled(mask, id) {
			continue
		}
		if !joined && !s.isJoinChannel(id) {
			continue
		}

		c := s.channels[id]
		if !c.DRRange.Contains(dr) {
			continue
		}
		if c.Band < len(s.bands) && s.bands[c.Band].TimeOff > 0 {
			delayed++
			continue
		}

		enabled = append(enabled, id)
	}

	return enabled, delayed
}

// pickChannel picks a channel uniformly at random. With carrier-sense
// enabled, the channels are tried in order starting at a random position
// and the first free channel is returned.
func (s *State) pickChannel(enabled []int) (int, bool) {
	j := s.rand.Intn(len(enabled))
	cs := s.profile.CarrierSense
	if !cs.Enabled {
		return enabled[j], true
	}

	for i := 0; i < len(enabled); i++ {
		ch := enabled[j]
		if s.radio.IsChannelFree(s.channels[ch].Frequency, cs.RSSIThreshold, cs.Time) {
			return ch, true
		}
		j = (j + 1) % len(enabled)
	}
	return 0, false
}

func (s *State) isJoinChannel(id int) bool {
	for _, c := range s.profile.JoinChannels {
		if c == id {
			return true
		}
	}
	return false
}
