package region

import "time"

// Attribute defines a physical-layer parameter.
type Attribute int

// Physical-layer attributes.
const (
	AttrMinRxDR Attribute = iota
	AttrMaxRxDR
	AttrMinTxDR
	AttrMaxTxDR
	AttrTxDR
	AttrRxDR
	AttrDefaultTxDR
	AttrNextLowerTxDR
	AttrTxPower
	AttrDefaultTxPower
	AttrMaxPayload
	AttrMaxPayloadRepeater
	AttrDutyCycle
	AttrMaxRxWindow
	AttrReceiveDelay1
	AttrReceiveDelay2
	AttrJoinAcceptDelay1
	AttrJoinAcceptDelay2
	AttrMaxFCntGap
	AttrAckTimeout
	AttrDefaultRX1DROffset
	AttrDefaultRX2Frequency
	AttrDefaultRX2DR
	AttrChannelsMask
	AttrChannelsDefaultMask
	AttrMaxNbChannels
	AttrChannels
	AttrDefaultUplinkDwellTime
	AttrDefaultDownlinkDwellTime
	AttrDefaultMaxEIRP
	AttrDefaultAntennaGain
	AttrNbJoinTrials
	AttrDefaultNbJoinTrials
	AttrADRAckLimit
	AttrADRAckDelay
)

// PhyParam holds the value of a physical-layer attribute. Depending on the
// attribute, Value, Float, Duration, Mask or Channels is set.
type PhyParam struct {
	Value    int
	Float    float64
	Duration time.Duration
	Mask     Mask
	Channels []Channel
}

// GetPhyParam returns the value of the given attribute. The data-rate is
// used by the data-rate dependent attributes. Unknown attributes return a
// zero PhyParam.
func (s *State) GetPhyParam(attr Attribute, dr int) PhyParam {
	p := s.profile
	var out PhyParam

	switch attr {
	case AttrMinRxDR:
		out.Value = p.RxMinDR
	case AttrMaxRxDR:
		out.Value = p.RxMaxDR
	case AttrMinTxDR:
		out.Value = p.TxMinDR
	case AttrMaxTxDR:
		out.Value = p.TxMaxDR
	case AttrDefaultTxDR:
		out.Value = p.DefaultDR
	case AttrNextLowerTxDR:
		out.Value = s.NextLowerTxDR(dr)
	case AttrDefaultTxPower:
		out.Value = p.DefaultTxPower
	case AttrMaxPayload:
		if dr >= 0 && dr < len(p.MaxPayload) {
			out.Value = p.MaxPayload[dr]
		}
	case AttrMaxPayloadRepeater:
		if dr >= 0 && dr < len(p.MaxPayloadRepeater) {
			out.Value = p.MaxPayloadRepeater[dr]
		}
	case AttrDutyCycle:
		if p.DutyCycleEnabled {
			out.Value = 1
		}
	case AttrMaxRxWindow:
		out.Duration = p.MaxRxWindow
	case AttrReceiveDelay1:
		out.Duration = p.ReceiveDelay1
	case AttrReceiveDelay2:
		out.Duration = p.ReceiveDelay2
	case AttrJoinAcceptDelay1:
		out.Duration = p.JoinAcceptDelay1
	case AttrJoinAcceptDelay2:
		out.Duration = p.JoinAcceptDelay2
	case AttrMaxFCntGap:
		out.Value = int(p.MaxFCntGap)
	case AttrAckTimeout:
		out.Duration = p.AckTimeout
		if p.AckTimeoutRnd > 0 {
			out.Duration += time.Duration(s.rand.Int63n(int64(2*p.AckTimeoutRnd)+1)) - p.AckTimeoutRnd
		}
	case AttrDefaultRX1DROffset:
		out.Value = p.DefaultDROffset
	case AttrDefaultRX2Frequency:
		out.Value = int(p.RX2Frequency)
	case AttrDefaultRX2DR:
		out.Value = p.RX2DR
	case AttrChannelsMask:
		out.Mask = s.active.Clone()
	case AttrChannelsDefaultMask:
		out.Mask = s.defaults.Clone()
	case AttrMaxNbChannels:
		out.Value = p.MaxChannels
	case AttrChannels:
		out.Channels = s.Channels()
	case AttrDefaultUplinkDwellTime, AttrDefaultDownlinkDwellTime:
		out.Value = 0
	case AttrDefaultMaxEIRP:
		out.Float = s.defaultMaxEIRP()
	case AttrDefaultAntennaGain:
		out.Float = p.DefaultAntennaGain
	case AttrNbJoinTrials, AttrDefaultNbJoinTrials:
		out.Value = p.NbJoinTrials
	case AttrADRAckLimit:
		out.Value = int(p.ADRAckLimit)
	case AttrADRAckDelay:
		out.Value = int(p.ADRAckDelay)
	}

	return out
}

// NextLowerTxDR returns the data-rate one tier below the given data-rate,
// floored at the minimum tx data-rate.
func (s *State) NextLowerTxDR(dr int) int {
	if dr <= s.profile.TxMinDR {
		return s.profile.TxMinDR
	}
	return dr - 1
}

// VerifyParams holds the values validated by Verify.
type VerifyParams struct {
	Datarate     int
	TxPower      int
	NbJoinTrials int
}

// Verify validates the value of the given attribute against the region
// bounds. Unknown attributes are rejected.
func (s *State) Verify(attr Attribute, v VerifyParams) bool {
	p := s.profile

	switch attr {
	case AttrTxDR:
		return valueInRange(v.Datarate, p.TxMinDR, p.TxMaxDR)
	case AttrDefaultTxDR:
		return valueInRange(v.Datarate, p.TxMinDR, p.DefaultMaxTxDR)
	case AttrRxDR:
		return valueInRange(v.Datarate, p.RxMinDR, p.RxMaxDR)
	case AttrTxPower, AttrDefaultTxPower:
		return valueInRange(v.TxPower, p.MaxTxPower, p.MinTxPower)
	case AttrDutyCycle:
		return p.DutyCycleEnabled
	case AttrNbJoinTrials:
		return v.NbJoinTrials >= p.NbJoinTrials
	default:
		return false
	}
}
