package region

// DRRange defines an inclusive data-rate range.
type DRRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains returns true when the data-rate is within the range.
func (r DRRange) Contains(dr int) bool {
	return valueInRange(dr, r.Min, r.Max)
}

// Channel defines an uplink channel. A zero Frequency marks an absent
// channel.
type Channel struct {
	Frequency    uint32  `yaml:"frequency" json:"frequency"`
	RX1Frequency uint32  `yaml:"rx1_frequency" json:"rx1_frequency"`
	DRRange      DRRange `yaml:"dr_range" json:"dr_range"`
	Band         int     `yaml:"band" json:"band"`
}

// IsDefaultChannel returns true when the channel id is one of the channels
// mandated by the region.
func (s *State) IsDefaultChannel(id int) bool {
	return id >= 0 && id < s.profile.NumDefaultChannels
}

// Channel returns the channel for the given id.
func (s *State) Channel(id int) (Channel, error) {
	if id < 0 || id >= len(s.channels) {
		return Channel{}, ErrInvalidChannelID
	}
	return s.channels[id], nil
}

// Channels returns a copy of the channel table.
func (s *State) Channels() []Channel {
	out := make([]Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// VerifyFrequency returns true when the radio accepts the frequency and
// the frequency is inside the region sub-band on the channel raster.
func (s *State) VerifyFrequency(freq uint32) bool {
	if !s.radio.CheckRfFrequency(freq) {
		return false
	}

	r := s.profile.Frequencies
	if freq < r.Min || freq > r.Max {
		return false
	}
	return (freq-r.Min)%r.Step == 0
}

// AddChannel stores the channel under the given id and enables it in the
// active mask. Only the data-rate range of a default channel can be
// changed.
func (s *State) AddChannel(id int, c Channel) error {
	if id < 0 || id >= s.profile.MaxChannels {
		return ErrInvalidChannelID
	}

	var drInvalid, freqInvalid bool

	if !valueInRange(c.DRRange.Min, s.profile.TxMinDR, s.profile.TxMaxDR) ||
		!valueInRange(c.DRRange.Max, s.profile.TxMinDR, s.profile.TxMaxDR) ||
		c.DRRange.Min > c.DRRange.Max {
		drInvalid = true
	}

	if s.IsDefaultChannel(id) && c.Frequency != s.channels[id].Frequency {
		freqInvalid = true
	}

	if !freqInvalid && !s.VerifyFrequency(c.Frequency) {
		freqInvalid = true
	}

	switch {
	case drInvalid && freqInvalid:
		return ErrInvalidFrequencyAndDatarate
	case drInvalid:
		return ErrInvalidDatarate
	case freqInvalid:
		return ErrInvalidFrequency
	}

	c.Band = s.bandForFrequency(c.Frequency)
	s.channels[id] = c
	s.active.Set(id)
	return nil
}

// RemoveChannel removes the channel with the given id and clears it from
// every mask. Default channels can't be removed.
func (s *State) RemoveChannel(id int) bool {
	if id < 0 || id >= s.profile.MaxChannels || s.IsDefaultChannel(id) {
		return false
	}

	s.channels[id] = Channel{}
	s.active.Clear(id)
	s.defaults.Clear(id)
	s.remaining.Clear(id)
	return true
}

// bandForFrequency returns the first band whose frequency bounds contain the
// given frequency.
func (s *State) bandForFrequency(freq uint32) int {
	for i, b := range s.profile.Bands {
		if b.MinFrequency == 0 && b.MaxFrequency == 0 {
			return i
		}
		if freq >= b.MinFrequency && freq <= b.MaxFrequency {
			return i
		}
	}
	return 0
}

// enabled returns true when the channel is defined and set in the mask.
func (s *State) enabled(m Mask, id int) bool {
	return m.IsSet(id) && s.channels[id].Frequency != 0
}
