package region

import "math/bits"

// MaskKind defines the role of a channel-mask.
type MaskKind int

// Channel-mask kinds.
const (
	ActiveMask MaskKind = iota
	DefaultMask
	RemainingMask
)

func (k MaskKind) String() string {
	switch k {
	case ActiveMask:
		return "active"
	case DefaultMask:
		return "default"
	case RemainingMask:
		return "remaining"
	default:
		return "unknown"
	}
}

// Mask is a channel bit-vector. Bit i of word w represents channel 16w+i.
type Mask []uint16

// NewMask returns an empty mask covering n channels.
func NewMask(n int) Mask {
	return make(Mask, (n+15)/16)
}

// IsSet returns true when the bit of the given channel is set.
func (m Mask) IsSet(ch int) bool {
	if ch < 0 || ch/16 >= len(m) {
		return false
	}
	return m[ch/16]&(1<<uint(ch%16)) != 0
}

// Set sets the bit of the given channel.
func (m Mask) Set(ch int) {
	if ch < 0 || ch/16 >= len(m) {
		return
	}
	m[ch/16] |= 1 << uint(ch%16)
}

// Clear clears the bit of the given channel.
func (m Mask) Clear(ch int) {
	if ch < 0 || ch/16 >= len(m) {
		return
	}
	m[ch/16] &^= 1 << uint(ch%16)
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	var n int
	for _, w := range m {
		n += bits.OnesCount16(w)
	}
	return n
}

// Or merges o into m.
func (m Mask) Or(o Mask) {
	for i := range m {
		if i < len(o) {
			m[i] |= o[i]
		}
	}
}

// Clone returns a copy of the mask.
func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	copy(out, m)
	return out
}

// copyFrom copies the words of o into m, bounded to the length of m.
// Words missing in o are cleared.
func (m Mask) copyFrom(o Mask) {
	for i := range m {
		if i < len(o) {
			m[i] = o[i]
		} else {
			m[i] = 0
		}
	}
}

// Mask returns a copy of the mask of the given kind.
func (s *State) Mask(kind MaskKind) Mask {
	switch kind {
	case ActiveMask:
		return s.active.Clone()
	case DefaultMask:
		return s.defaults.Clone()
	case RemainingMask:
		return s.remaining.Clone()
	default:
		return nil
	}
}

// SetMask copies the given bits into the active or default mask. No
// semantic validation is performed. It returns false for any other kind.
func (s *State) SetMask(kind MaskKind, m Mask) bool {
	switch kind {
	case ActiveMask:
		s.active.copyFrom(m)
		s.remaining.copyFrom(m)
	case DefaultMask:
		s.defaults.copyFrom(m)
	default:
		return false
	}
	return true
}

// MergeDefaultsIntoActive ORs the default mask into the active mask.
func (s *State) MergeDefaultsIntoActive() {
	s.active.Or(s.defaults)
}

// EnableChannels sets the active mask bit of every given channel that has a
// frequency.
func (s *State) EnableChannels(ids ...int) {
	for _, id := range ids {
		if id >= 0 && id < len(s.channels) && s.channels[id].Frequency != 0 {
			s.active.Set(id)
		}
	}
}
