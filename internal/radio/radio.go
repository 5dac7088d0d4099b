// Package radio implements a simulated LoRa transceiver.
package radio

import (
	"math"
	"time"

	"github.com/brocaar/chirpstack-region/internal/config"
	"github.com/brocaar/chirpstack-region/internal/region"
)

// ContinuousWave holds the last continuous wave transmission.
type ContinuousWave struct {
	Frequency uint32
	Power     int
	Timeout   time.Duration
}

// Simulator is a simulated radio. It records the applied configuration.
type Simulator struct {
	minFrequency uint32
	maxFrequency uint32
	busy         map[uint32]struct{}
	idle         bool

	Frequency        uint32
	TxConfig         region.TxRadioConfig
	RxConfig         region.RxRadioConfig
	MaxPayloadLength int
	ContinuousWave   ContinuousWave
	CarrierSenses    int
}

// New returns a Simulator accepting frequencies within [min, max].
func New(min, max uint32) *Simulator {
	return &Simulator{
		minFrequency: min,
		maxFrequency: max,
		busy:         make(map[uint32]struct{}),
		idle:         true,
	}
}

// NewFromConfig returns a Simulator configured by the given configuration.
func NewFromConfig(c config.Config) *Simulator {
	s := New(c.Radio.MinFrequency, c.Radio.MaxFrequency)
	for _, f := range c.Radio.BusyFrequencies {
		s.SetBusy(f, true)
	}
	return s
}

// SetIdle sets the state reported by IsIdle.
func (s *Simulator) SetIdle(idle bool) {
	s.idle = idle
}

// SetBusy marks the given frequency as occupied for carrier-sense.
func (s *Simulator) SetBusy(freq uint32, busy bool) {
	if busy {
		s.busy[freq] = struct{}{}
	} else {
		delete(s.busy, freq)
	}
}

// CheckRfFrequency implements region.Radio.
func (s *Simulator) CheckRfFrequency(freq uint32) bool {
	if s.minFrequency == 0 && s.maxFrequency == 0 {
		return true
	}
	return freq >= s.minFrequency && freq <= s.maxFrequency
}

// TimeOnAir implements region.Radio. It uses the LoRa time-on-air formula
// with explicit header and the low data-rate optimization for symbol times
// larger than 16 ms.
func (s *Simulator) TimeOnAir(cfg region.TxRadioConfig, pktLen int) time.Duration {
	return TimeOnAir(cfg.SpreadingFactor, region.BandwidthHz(cfg.Bandwidth), cfg.CodingRate, cfg.PreambleLength, cfg.CRC, pktLen)
}

// SetChannel implements region.Radio.
func (s *Simulator) SetChannel(freq uint32) {
	s.Frequency = freq
}

// SetTxConfig implements region.Radio.
func (s *Simulator) SetTxConfig(cfg region.TxRadioConfig) {
	s.TxConfig = cfg
}

// SetRxConfig implements region.Radio.
func (s *Simulator) SetRxConfig(cfg region.RxRadioConfig) {
	s.RxConfig = cfg
}

// SetMaxPayloadLength implements region.Radio.
func (s *Simulator) SetMaxPayloadLength(n int) {
	s.MaxPayloadLength = n
}

// IsIdle implements region.Radio.
func (s *Simulator) IsIdle() bool {
	return s.idle
}

// IsChannelFree implements region.Radio.
func (s *Simulator) IsChannelFree(freq uint32, rssiThreshold int16, senseTime time.Duration) bool {
	s.CarrierSenses++
	_, busy := s.busy[freq]
	return !busy
}

// SetTxContinuousWave implements region.Radio.
func (s *Simulator) SetTxContinuousWave(freq uint32, power int, timeout time.Duration) {
	s.ContinuousWave = ContinuousWave{
		Frequency: freq,
		Power:     power,
		Timeout:   timeout,
	}
}

// TimeOnAir returns the LoRa time-on-air, rounded up to the millisecond.
func TimeOnAir(sf, bandwidth, codingRate, preambleLength int, crc bool, pktLen int) time.Duration {
	if bandwidth == 0 || sf == 0 {
		return 0
	}

	tSym := math.Pow(2, float64(sf)) / float64(bandwidth) * 1000
	tPreamble := (float64(preambleLength) + 4.25) * tSym

	var de, crcBits float64
	if tSym > 16 {
		de = 1
	}
	if crc {
		crcBits = 16
	}

	num := 8*float64(pktLen) - 4*float64(sf) + 28 + crcBits
	den := 4 * (float64(sf) - 2*de)
	symbols := 8 + math.Max(math.Ceil(num/den)*float64(codingRate+4), 0)

	ms := math.Ceil(tPreamble + symbols*tSym)
	return time.Duration(ms) * time.Millisecond
}
