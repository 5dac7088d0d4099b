package region

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// FRMPayloadOverhead holds the LoRaWAN frame overhead which is added to the
// max. payload size when configuring the receiver.
const FRMPayloadOverhead = 13

// Radio defaults of the LoRa modem configuration.
const (
	loraCodingRate     = 1 // 4/5
	loraPreambleLength = 8
	txTimeout          = 3 * time.Second
)

// TxRadioConfig holds the LoRa tx configuration of the radio.
type TxRadioConfig struct {
	Power           int // dBm
	Bandwidth       int // code: 0 = 125 kHz, 1 = 250 kHz, 2 = 500 kHz
	SpreadingFactor int
	CodingRate      int
	PreambleLength  int
	CRC             bool
	Timeout         time.Duration
}

// RxRadioConfig holds the LoRa rx configuration of the radio.
type RxRadioConfig struct {
	Bandwidth       int
	SpreadingFactor int
	CodingRate      int
	PreambleLength  int
	SymbolTimeout   uint32
	CRC             bool
	Continuous      bool
}

// BandwidthCode returns the radio bandwidth code for the given bandwidth.
func BandwidthCode(hz int) int {
	switch hz {
	case 250000:
		return 1
	case 500000:
		return 2
	default:
		return 0
	}
}

// BandwidthHz returns the bandwidth (Hz) for the given bandwidth code.
func BandwidthHz(code int) int {
	switch code {
	case 1:
		return 250000
	case 2:
		return 500000
	default:
		return 125000
	}
}

// MaxEIRP returns the max. EIRP (dBm) allowed at the given frequency.
func (s *State) MaxEIRP(freq uint32) float64 {
	var out float64
	var from uint32
	var found bool
	for _, l := range s.profile.EIRP {
		if freq < l.FromFrequency {
			continue
		}
		if !found || l.FromFrequency >= from {
			out, from, found = l.MaxEIRP, l.FromFrequency, true
		}
	}
	return out
}

func (s *State) defaultMaxEIRP() float64 {
	var out float64
	for _, l := range s.profile.EIRP {
		if l.MaxEIRP > out {
			out = l.MaxEIRP
		}
	}
	return out
}

// ComputeTxPower returns the physical tx-power (dBm) for the given tx-power
// index, max. EIRP and antenna gain.
func ComputeTxPower(txPowerIndex int, maxEIRP, antennaGain float64) int {
	return int(math.Floor(maxEIRP - float64(txPowerIndex*2) - antennaGain))
}

// TxConfigParams holds the parameters of the next transmission.
type TxConfigParams struct {
	Channel  int
	Datarate int
	TxPower  int

	// MaxEIRP holds the max. EIRP set by the MAC layer. A zero value uses
	// the value set by TxParamSetupReq.
	MaxEIRP     float64
	AntennaGain float64
	PktLen      int
}

// TxConfigResult holds the applied tx configuration.
type TxConfigResult struct {
	TxPower    int
	PhyTxPower int
	TimeOnAir  time.Duration
}

// TxConfig configures the radio for the next transmission and returns the
// time-on-air of the frame.
func (s *State) TxConfig(p TxConfigParams) (TxConfigResult, error) {
	var out TxConfigResult

	c, b, err := s.channelAndBand(p.Channel)
	if err != nil {
		return out, err
	}
	if !valueInRange(p.Datarate, s.profile.TxMinDR, s.profile.TxMaxDR) {
		return out, ErrInvalidDatarate
	}

	dr := s.profile.DataRates[p.Datarate]
	txPower := limitTxPower(p.TxPower, b.TxMaxPower)
	phyTxPower := ComputeTxPower(txPower, s.eirp(c.Frequency, p.MaxEIRP), p.AntennaGain)

	cfg := TxRadioConfig{
		Power:           phyTxPower,
		Bandwidth:       BandwidthCode(dr.Bandwidth),
		SpreadingFactor: dr.SpreadingFactor,
		CodingRate:      loraCodingRate,
		PreambleLength:  loraPreambleLength,
		CRC:             true,
		Timeout:         txTimeout,
	}

	s.radio.SetChannel(c.Frequency)
	s.radio.SetTxConfig(cfg)
	s.radio.SetMaxPayloadLength(p.PktLen)

	out.TxPower = txPower
	out.PhyTxPower = phyTxPower
	out.TimeOnAir = s.radio.TimeOnAir(cfg, p.PktLen)
	return out, nil
}

// RxConfigParams holds the parameters of a receive window.
type RxConfigParams struct {
	Channel  int
	Datarate int

	// Window is 0 for RX1 and 1 for RX2. Frequency is used for RX2.
	Window    int
	Frequency uint32

	WindowTimeout uint32
	Continuous    bool
	Repeater      bool
}

// RxConfig configures the radio for a receive window and returns the
// data-rate of the window.
func (s *State) RxConfig(p RxConfigParams) (int, error) {
	if !s.radio.IsIdle() {
		return 0, ErrRadioBusy
	}
	if !valueInRange(p.Datarate, s.profile.RxMinDR, s.profile.RxMaxDR) {
		return 0, ErrInvalidDatarate
	}

	freq := p.Frequency
	if p.Window == 0 {
		c, err := s.Channel(p.Channel)
		if err != nil {
			return 0, err
		}
		freq = c.Frequency
		if c.RX1Frequency != 0 {
			freq = c.RX1Frequency
		}
	}

	dr := s.profile.DataRates[p.Datarate]
	maxPayload := s.profile.MaxPayload[p.Datarate]
	if p.Repeater {
		maxPayload = s.profile.MaxPayloadRepeater[p.Datarate]
	}

	s.radio.SetChannel(freq)
	s.radio.SetRxConfig(RxRadioConfig{
		Bandwidth:       BandwidthCode(dr.Bandwidth),
		SpreadingFactor: dr.SpreadingFactor,
		CodingRate:      loraCodingRate,
		PreambleLength:  loraPreambleLength,
		SymbolTimeout:   p.WindowTimeout,
		Continuous:      p.Continuous,
	})
	s.radio.SetMaxPayloadLength(maxPayload + FRMPayloadOverhead)

	return p.Datarate, nil
}

// RxWindowParams holds the timing parameters of a receive window.
type RxWindowParams struct {
	Datarate  int
	Bandwidth int // code

	// WindowTimeout holds the number of symbols and WindowOffset the offset
	// to the nominal window start.
	WindowTimeout uint32
	WindowOffset  time.Duration
}

// ComputeRxWindowParameters computes the receive window timing for the
// given data-rate. The data-rate is capped at the max. rx data-rate.
func (s *State) ComputeRxWindowParameters(dr int, minRxSymbols int, rxError, wakeupTime time.Duration) RxWindowParams {
	if dr > s.profile.RxMaxDR {
		dr = s.profile.RxMaxDR
	}
	if dr < s.profile.RxMinDR {
		dr = s.profile.RxMinDR
	}

	rate := s.profile.DataRates[dr]
	tSymbol := SymbolTime(rate.SpreadingFactor, rate.Bandwidth)
	rxErrorMS := float64(rxError) / float64(time.Millisecond)
	wakeupMS := float64(wakeupTime) / float64(time.Millisecond)

	timeout := math.Ceil((float64(2*minRxSymbols-8)*tSymbol + 2*rxErrorMS) / tSymbol)
	if timeout < float64(minRxSymbols) {
		timeout = float64(minRxSymbols)
	}
	offset := math.Ceil(4*tSymbol - (timeout*tSymbol)/2 - wakeupMS)

	return RxWindowParams{
		Datarate:      dr,
		Bandwidth:     BandwidthCode(rate.Bandwidth),
		WindowTimeout: uint32(timeout),
		WindowOffset:  time.Duration(offset) * time.Millisecond,
	}
}

// SymbolTime returns the LoRa symbol time in milliseconds.
func SymbolTime(sf, bandwidth int) float64 {
	return float64(uint(1)<<uint(sf)) / float64(bandwidth) * 1000
}

// ContinuousWaveParams holds the parameters of a continuous wave
// transmission.
type ContinuousWaveParams struct {
	Channel     int
	TxPower     int
	MaxEIRP     float64
	AntennaGain float64
	Timeout     time.Duration
}

// SetContinuousWave starts a continuous wave transmission on the given
// channel.
func (s *State) SetContinuousWave(p ContinuousWaveParams) error {
	c, b, err := s.channelAndBand(p.Channel)
	if err != nil {
		return err
	}

	txPower := limitTxPower(p.TxPower, b.TxMaxPower)
	phyTxPower := ComputeTxPower(txPower, s.eirp(c.Frequency, p.MaxEIRP), p.AntennaGain)
	s.radio.SetTxContinuousWave(c.Frequency, phyTxPower, p.Timeout)
	return nil
}

// AlternateDr returns the data-rate of the given join trial.
func (s *State) AlternateDr(nbTrials int) int {
	var dr int
	switch {
	case nbTrials%48 == 0:
		dr = 0
	case nbTrials%32 == 0:
		dr = 1
	case nbTrials%24 == 0:
		dr = 2
	case nbTrials%16 == 0:
		dr = 3
	case nbTrials%8 == 0:
		dr = 4
	default:
		dr = 5
	}

	if dr < s.profile.TxMinDR {
		dr = s.profile.TxMinDR
	}
	if dr > s.profile.TxMaxDR {
		dr = s.profile.TxMaxDR
	}
	return dr
}

// ApplyDrOffset returns the RX1 data-rate for the given uplink data-rate and
// RX1 data-rate offset.
func (s *State) ApplyDrOffset(dr, offset int) int {
	out := dr - offset
	if out < s.profile.RxMinDR {
		return s.profile.RxMinDR
	}
	return out
}

// eirp returns the max. EIRP of the frequency, limited by the MAC layer
// value.
func (s *State) eirp(freq uint32, macMaxEIRP float64) float64 {
	limit := macMaxEIRP
	if limit == 0 {
		limit = s.maxEIRP
	}
	return math.Min(s.MaxEIRP(freq), limit)
}

func (s *State) channelAndBand(id int) (Channel, Band, error) {
	c, err := s.Channel(id)
	if err != nil {
		return Channel{}, Band{}, err
	}
	if c.Frequency == 0 {
		return Channel{}, Band{}, errors.Wrapf(ErrInvalidChannelID, "channel %d is not defined", id)
	}
	b := s.channelBand(id)
	if b == nil {
		return Channel{}, Band{}, errors.Errorf("channel %d refers to an undefined band", id)
	}
	return c, *b, nil
}

// limitTxPower limits the tx-power index to the band ceiling.
func limitTxPower(txPower, bandMax int) int {
	if txPower < bandMax {
		return bandMax
	}
	return txPower
}
