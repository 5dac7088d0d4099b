package region

import (
	"github.com/brocaar/lorawan"
	"github.com/pkg/errors"
)

// cfListSize holds the size of a CFList, the last byte is RFU.
const cfListSize = 16

// maxEIRPTable maps the TxParamSetupReq MaxEIRP field to dBm.
var maxEIRPTable = [16]float64{8, 10, 12, 13, 14, 16, 18, 20, 21, 24, 26, 27, 29, 30, 33, 36}

// NewChannel processes a NewChannelReq. A zero frequency removes the channel.
func (s *State) NewChannel(id int, c Channel) Status {
	status := ChannelAccepted

	if c.Frequency == 0 {
		if !s.RemoveChannel(id) {
			status &^= ChannelAccepted
		}
		return status
	}

	c.RX1Frequency = 0
	switch errors.Cause(s.AddChannel(id, c)) {
	case nil:
	case ErrInvalidFrequency:
		status &^= ChannelOK
	case ErrInvalidDatarate:
		status &^= DatarateOK
	default:
		status &^= ChannelAccepted
	}

	return status
}

// DlChannel processes a DlChannelReq. The RX1 frequency is applied only when
// the frequency is valid and the uplink channel exists.
func (s *State) DlChannel(id int, rx1Frequency uint32) Status {
	status := ChannelAccepted

	if !s.VerifyFrequency(rx1Frequency) {
		status &^= ChannelOK
	}
	if id < 0 || id >= len(s.channels) || s.channels[id].Frequency == 0 {
		status &^= DatarateOK
	}

	if status == ChannelAccepted {
		s.channels[id].RX1Frequency = rx1Frequency
	}

	return status
}

// RxParamSetupParams holds the parameters of a RXParamSetupReq.
type RxParamSetupParams struct {
	Frequency uint32
	Datarate  int
	DROffset  int
}

// RxParamSetup validates a RXParamSetupReq. The caller applies the values
// when the request is fully accepted.
func (s *State) RxParamSetup(p RxParamSetupParams) Status {
	status := Accepted

	if !s.radio.CheckRfFrequency(p.Frequency) {
		status &^= ChannelOK
	}
	if !valueInRange(p.Datarate, s.profile.RxMinDR, s.profile.RxMaxDR) {
		status &^= DatarateOK
	}
	if !valueInRange(p.DROffset, s.profile.MinRX1DROffset, s.profile.MaxRX1DROffset) {
		status &^= ParamOK
	}

	return status
}

// TxParamSetupParams holds the parameters of a TxParamSetupReq.
type TxParamSetupParams struct {
	UplinkDwellTime   bool
	DownlinkDwellTime bool
	MaxEIRP           uint8
}

// TxParamSetup processes a TxParamSetupReq. It returns ErrUnsupported for
// regions that don't implement the command.
func (s *State) TxParamSetup(p TxParamSetupParams) error {
	if !s.profile.TxParamSetup {
		return ErrUnsupported
	}

	s.uplinkDwellTime = p.UplinkDwellTime
	s.downlinkDwellTime = p.DownlinkDwellTime
	s.maxEIRP = maxEIRPTable[p.MaxEIRP&0x0f]
	return nil
}

// CFListResult holds the outcome of applying a CFList.
type CFListResult struct {
	Applied bool

	// Added and Removed hold the affected channel ids, Rejected the channels
	// that could not be added.
	Added    []int
	Removed  []int
	Rejected map[int]error
}

// ApplyCFList applies the CFList of a join-accept. The channels following
// the default channels are added, a zero frequency removes the channel. A
// CFList of any size other than 16 bytes is ignored.
func (s *State) ApplyCFList(b []byte) CFListResult {
	var out CFListResult
	if len(b) != cfListSize {
		return out
	}

	var pl lorawan.CFListChannelPayload
	if err := pl.UnmarshalBinary(false, b[:cfListSize-1]); err != nil {
		return out
	}

	out.Applied = true
	out.Rejected = make(map[int]error)

	for i, id := 0, s.profile.NumDefaultChannels; id < s.profile.MaxChannels; i, id = i+1, id+1 {
		var freq uint32
		if i < s.profile.NumCFListChannels && i < len(pl.Channels) {
			freq = pl.Channels[i]
		}

		if freq == 0 {
			present := s.channels[id].Frequency != 0
			if s.RemoveChannel(id) && present {
				out.Removed = append(out.Removed, id)
			}
			continue
		}

		err := s.AddChannel(id, Channel{
			Frequency: freq,
			DRRange: DRRange{
				Min: s.profile.TxMinDR,
				Max: s.profile.TxMaxDR,
			},
		})
		if err != nil {
			out.Rejected[id] = err
			continue
		}
		out.Added = append(out.Added, id)
	}

	return out
}
