package region

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// Radio defines the radio driver capabilities consumed by the engine.
type Radio interface {
	// CheckRfFrequency returns true when the radio can tune to the
	// given frequency.
	CheckRfFrequency(freq uint32) bool

	// TimeOnAir returns the time-on-air of a frame of the given length
	// using the given tx configuration.
	TimeOnAir(cfg TxRadioConfig, pktLen int) time.Duration

	SetChannel(freq uint32)
	SetTxConfig(cfg TxRadioConfig)
	SetRxConfig(cfg RxRadioConfig)
	SetMaxPayloadLength(n int)

	// IsIdle returns true when the radio is neither transmitting nor
	// receiving.
	IsIdle() bool

	// IsChannelFree performs carrier-sense on the given frequency.
	IsChannelFree(freq uint32, rssiThreshold int16, senseTime time.Duration) bool

	SetTxContinuousWave(freq uint32, power int, timeout time.Duration)
}

// Timer defines the clock capabilities consumed by the engine.
type Timer interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Band holds the duty-cycle accounting of a band.
type Band struct {
	DutyCycle  uint16 `json:"duty_cycle"`
	TxMaxPower int    `json:"tx_max_power"`

	// TimeOff holds the remaining time-off, relative to LastUpdate.
	TimeOff    time.Duration `json:"time_off"`
	LastUpdate time.Time     `json:"last_update"`

	LastTxDone     time.Time `json:"last_tx_done"`
	LastJoinTxDone time.Time `json:"last_join_tx_done"`
}

// InitType defines the kind of (re)initialization.
type InitType int

// Init types.
const (
	// InitTypeInit installs the channel table and default mask of the profile.
	InitTypeInit InitType = iota

	// InitTypeRestore merges the default mask into the active mask.
	InitTypeRestore

	// InitTypeAppDefaults resets the active mask to the default mask.
	InitTypeAppDefaults
)

func (t InitType) String() string {
	switch t {
	case InitTypeInit:
		return "init"
	case InitTypeRestore:
		return "restore"
	case InitTypeAppDefaults:
		return "app_defaults"
	default:
		return "unknown"
	}
}

// State holds the mutable channel, band and mask tables of a region. A
// State is not safe for concurrent use.
type State struct {
	profile Profile
	radio   Radio
	timer   Timer
	rand    *rand.Rand

	channels  []Channel
	bands     []Band
	active    Mask
	defaults  Mask
	remaining Mask

	uplinkDwellTime   bool
	downlinkDwellTime bool
	maxEIRP           float64
}

// Option configures a State.
type Option func(*State)

// WithRandSource sets the source used for the random channel selection.
func WithRandSource(src rand.Source) Option {
	return func(s *State) {
		s.rand = rand.New(src)
	}
}

// New creates a State for the given profile and performs a cold init.
func New(p Profile, r Radio, t Timer, opts ...Option) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate profile error")
	}
	if r == nil || t == nil {
		return nil, errors.New("radio and timer must be set")
	}

	s := State{
		profile:   p,
		radio:     r,
		timer:     t,
		channels:  make([]Channel, p.MaxChannels),
		bands:     make([]Band, len(p.Bands)),
		active:    NewMask(p.MaxChannels),
		defaults:  NewMask(p.MaxChannels),
		remaining: NewMask(p.MaxChannels),
	}

	for _, o := range opts {
		o(&s)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	now := t.Now()
	for i, b := range p.Bands {
		s.bands[i] = Band{
			DutyCycle:  b.DutyCycle,
			TxMaxPower: b.TxMaxPower,
			LastUpdate: now,
		}
	}

	s.InitDefaults(InitTypeInit)
	return &s, nil
}

// Profile returns the profile of the region.
func (s *State) Profile() Profile {
	return s.profile
}

// Bands returns a copy of the band table.
func (s *State) Bands() []Band {
	out := make([]Band, len(s.bands))
	copy(out, s.bands)
	return out
}

// InitDefaults (re)initializes the tables.
func (s *State) InitDefaults(t InitType) {
	switch t {
	case InitTypeInit:
		for i := range s.channels {
			s.channels[i] = Channel{}
		}
		for i := range s.defaults {
			s.defaults[i] = 0
		}
		for i, c := range s.profile.Channels {
			c.Band = s.bandForFrequency(c.Frequency)
			s.channels[i] = c
			s.defaults.Set(i)
		}
		s.active.copyFrom(s.defaults)
		s.remaining.copyFrom(s.defaults)
		s.uplinkDwellTime = false
		s.downlinkDwellTime = false
		s.maxEIRP = s.defaultMaxEIRP()
	case InitTypeRestore:
		s.MergeDefaultsIntoActive()
	case InitTypeAppDefaults:
		s.active.copyFrom(s.defaults)
		s.remaining.copyFrom(s.defaults)
	}
}

// Snapshot holds the exportable state of a region.
type Snapshot struct {
	Profile           string    `json:"profile"`
	Channels          []Channel `json:"channels"`
	Bands             []Band    `json:"bands"`
	ActiveMask        Mask      `json:"active_mask"`
	DefaultMask       Mask      `json:"default_mask"`
	RemainingMask     Mask      `json:"remaining_mask"`
	UplinkDwellTime   bool      `json:"uplink_dwell_time"`
	DownlinkDwellTime bool      `json:"downlink_dwell_time"`
	MaxEIRP           float64   `json:"max_eirp"`
}

// Snapshot exports the state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Profile:           s.profile.Name,
		Channels:          s.Channels(),
		Bands:             s.Bands(),
		ActiveMask:        s.active.Clone(),
		DefaultMask:       s.defaults.Clone(),
		RemainingMask:     s.remaining.Clone(),
		UplinkDwellTime:   s.uplinkDwellTime,
		DownlinkDwellTime: s.downlinkDwellTime,
		MaxEIRP:           s.maxEIRP,
	}
}

// Restore imports a snapshot and applies the restore init type. Channels
// that don't fit the profile are skipped.
func (s *State) Restore(snap Snapshot) error {
	if snap.Profile != s.profile.Name {
		return errors.Errorf("snapshot of profile %s can't be restored into profile %s", snap.Profile, s.profile.Name)
	}
	if len(snap.Channels) != s.profile.MaxChannels || len(snap.Bands) != len(s.bands) {
		return errors.New("snapshot does not match the profile dimensions")
	}

	for i, c := range snap.Channels {
		if s.IsDefaultChannel(i) {
			s.channels[i].DRRange = c.DRRange
			s.channels[i].RX1Frequency = c.RX1Frequency
			continue
		}
		s.channels[i] = c
	}
	copy(s.bands, snap.Bands)
	s.active.copyFrom(snap.ActiveMask)
	s.defaults.copyFrom(snap.DefaultMask)
	s.remaining.copyFrom(snap.RemainingMask)
	s.uplinkDwellTime = snap.UplinkDwellTime
	s.downlinkDwellTime = snap.DownlinkDwellTime
	s.maxEIRP = snap.MaxEIRP

	s.InitDefaults(InitTypeRestore)
	return nil
}
