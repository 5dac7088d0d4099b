// Package region implements the regional MAC parameter engine of a LoRaWAN
// end-device: the channel and band registry, the channel-mask store, the
// duty-cycle tracker, next-channel selection and the processors for the
// network-issued MAC commands that mutate channel state.
//
// A region is described by a Profile value. All mutable state lives in a
// State, which must be driven from a single goroutine.
package region

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DataRate defines a LoRa data-rate.
type DataRate struct {
	SpreadingFactor int `yaml:"spreading_factor"`
	Bandwidth       int `yaml:"bandwidth"` // in Hz
}

// EIRPLimit defines the max. EIRP (dBm) from the given frequency onwards.
type EIRPLimit struct {
	FromFrequency uint32  `yaml:"from_frequency"`
	MaxEIRP       float64 `yaml:"max_eirp"`
}

// FrequencyRange defines the legal uplink sub-band and its channel raster.
type FrequencyRange struct {
	Min  uint32 `yaml:"min"`
	Max  uint32 `yaml:"max"`
	Step uint32 `yaml:"step"`
}

// CarrierSense defines the listen-before-talk parameters.
type CarrierSense struct {
	Enabled       bool          `yaml:"enabled"`
	Time          time.Duration `yaml:"time"`
	RSSIThreshold int16         `yaml:"rssi_threshold"`
}

// BandDefinition defines a duty-cycle band of the region.
type BandDefinition struct {
	// DutyCycle is the inverse duty-cycle ratio (1 = 100%, 100 = 1%).
	DutyCycle uint16 `yaml:"duty_cycle"`

	// TxMaxPower holds the tx-power index ceiling of the band.
	TxMaxPower int `yaml:"tx_max_power"`

	// MinFrequency and MaxFrequency bound the channels that belong to the
	// band. Zero values match every frequency.
	MinFrequency uint32 `yaml:"min_frequency"`
	MaxFrequency uint32 `yaml:"max_frequency"`
}

// Profile holds the constant physical-layer parameters of a region.
type Profile struct {
	Name string `yaml:"name"`

	// MaxChannels defines the number of channel slots.
	MaxChannels int `yaml:"max_channels"`

	// NumDefaultChannels defines how many of the first slots are mandated by
	// the region. Their frequency can't be changed and they can't be removed.
	NumDefaultChannels int `yaml:"num_default_channels"`

	// NumCFListChannels defines the number of channels a CFList can carry.
	NumCFListChannels int `yaml:"num_cflist_channels"`

	// Channels are installed on cold init. The first NumDefaultChannels
	// items are the mandatory default channels.
	Channels []Channel `yaml:"channels"`

	// JoinChannels holds the channel ids usable before the device joined.
	JoinChannels []int `yaml:"join_channels"`

	// ADRRecoveryChannels holds the channel ids re-enabled by the ADR engine
	// once the lowest data-rate has been reached.
	ADRRecoveryChannels []int `yaml:"adr_recovery_channels"`

	Bands []BandDefinition `yaml:"bands"`

	Frequencies FrequencyRange `yaml:"frequencies"`

	TxMinDR         int `yaml:"tx_min_dr"`
	TxMaxDR         int `yaml:"tx_max_dr"`
	RxMinDR         int `yaml:"rx_min_dr"`
	RxMaxDR         int `yaml:"rx_max_dr"`
	DefaultDR       int `yaml:"default_dr"`
	DefaultMaxTxDR  int `yaml:"default_max_tx_dr"`
	MinRX1DROffset  int `yaml:"min_rx1_dr_offset"`
	MaxRX1DROffset  int `yaml:"max_rx1_dr_offset"`
	DefaultDROffset int `yaml:"default_rx1_dr_offset"`

	// Tx-power indices, MaxTxPower is the index of the highest power (0).
	MaxTxPower     int `yaml:"max_tx_power"`
	MinTxPower     int `yaml:"min_tx_power"`
	DefaultTxPower int `yaml:"default_tx_power"`

	EIRP               []EIRPLimit `yaml:"eirp"`
	DefaultAntennaGain float64     `yaml:"default_antenna_gain"`

	DataRates          []DataRate `yaml:"data_rates"`
	MaxPayload         []int      `yaml:"max_payload"`
	MaxPayloadRepeater []int      `yaml:"max_payload_repeater"`

	ADRAckLimit uint32 `yaml:"adr_ack_limit"`
	ADRAckDelay uint32 `yaml:"adr_ack_delay"`

	DutyCycleEnabled bool `yaml:"duty_cycle_enabled"`

	MaxRxWindow      time.Duration `yaml:"max_rx_window"`
	ReceiveDelay1    time.Duration `yaml:"receive_delay1"`
	ReceiveDelay2    time.Duration `yaml:"receive_delay2"`
	JoinAcceptDelay1 time.Duration `yaml:"join_accept_delay1"`
	JoinAcceptDelay2 time.Duration `yaml:"join_accept_delay2"`
	AckTimeout       time.Duration `yaml:"ack_timeout"`
	AckTimeoutRnd    time.Duration `yaml:"ack_timeout_rnd"`
	MaxFCntGap       uint32        `yaml:"max_fcnt_gap"`

	RX2Frequency uint32 `yaml:"rx2_frequency"`
	RX2DR        int    `yaml:"rx2_dr"`

	NbJoinTrials int `yaml:"nb_join_trials"`

	CarrierSense CarrierSense `yaml:"carrier_sense"`

	// TxParamSetup defines if the region implements the TxParamSetupReq
	// mac-command.
	TxParamSetup bool `yaml:"tx_param_setup"`

	// UseRemainingMask makes the channel selection exhaust all enabled
	// channels before a channel is used again.
	UseRemainingMask bool `yaml:"use_remaining_mask"`
}

// Validate validates the profile for internal consistency.
func (p Profile) Validate() error {
	if p.MaxChannels <= 0 {
		return errors.New("max_channels must be greater than 0")
	}
	if p.NumDefaultChannels > len(p.Channels) {
		return errors.New("num_default_channels exceeds the number of channels")
	}
	if len(p.Channels) > p.MaxChannels {
		return errors.New("number of channels exceeds max_channels")
	}
	if p.NumDefaultChannels+p.NumCFListChannels > p.MaxChannels {
		return errors.New("default and cflist channels exceed max_channels")
	}
	if len(p.Bands) == 0 {
		return errors.New("at least one band must be defined")
	}
	if p.TxMinDR > p.TxMaxDR || p.RxMinDR > p.RxMaxDR {
		return errors.New("invalid data-rate bounds")
	}
	if p.TxMaxDR >= len(p.DataRates) || p.RxMaxDR >= len(p.DataRates) {
		return errors.New("data-rate bounds exceed the data-rate table")
	}
	if len(p.MaxPayload) != len(p.DataRates) || len(p.MaxPayloadRepeater) != len(p.DataRates) {
		return errors.New("max payload tables must match the data-rate table")
	}
	if p.MaxTxPower > p.MinTxPower {
		return errors.New("max_tx_power index must not exceed min_tx_power index")
	}
	if p.Frequencies.Step == 0 || p.Frequencies.Min > p.Frequencies.Max {
		return errors.New("invalid frequency range")
	}
	if p.ADRAckDelay == 0 {
		return errors.New("adr_ack_delay must be greater than 0")
	}
	for _, ids := range [][]int{p.JoinChannels, p.ADRRecoveryChannels} {
		for _, id := range ids {
			if id < 0 || id >= p.MaxChannels {
				return errors.Errorf("channel id %d out of range", id)
			}
		}
	}
	for i, c := range p.Channels {
		if c.Band < 0 || c.Band >= len(p.Bands) {
			return errors.Errorf("channel %d refers to undefined band %d", i, c.Band)
		}
	}
	return nil
}

// LoadProfile decodes a YAML encoded profile and validates it.
func LoadProfile(r io.Reader) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return p, errors.Wrap(err, "decode profile error")
	}
	if err := p.Validate(); err != nil {
		return p, errors.Wrap(err, "validate profile error")
	}
	return p, nil
}

// GetProfile returns the built-in profile for the given region name.
func GetProfile(name string) (Profile, error) {
	switch strings.ToUpper(name) {
	case "KR920", "KR_920_923", "KR920-923":
		return KR920(), nil
	default:
		return Profile{}, errors.Wrapf(ErrUnknownProfile, "region %s", name)
	}
}

// valueInRange returns true when v is within [min, max].
func valueInRange(v, min, max int) bool {
	return v >= min && v <= max
}
