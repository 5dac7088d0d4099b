package region

import (
	"github.com/brocaar/lorawan"
)

// linkADRBlockSize holds the size of a LinkADRReq sub-block: the CID
// followed by the 4 byte payload.
const linkADRBlockSize = 5

// LinkADRRequest holds a LinkADRReq command block and the current uplink
// parameters of the device.
type LinkADRRequest struct {
	// Payload holds the consecutive LinkADRReq commands, each one prefixed
	// with its CID.
	Payload []byte

	ADREnabled      bool
	CurrentDatarate int
	CurrentTxPower  int
	CurrentNbRep    int
}

// LinkADRResult holds the outcome of a LinkADRReq command block.
type LinkADRResult struct {
	Status Status

	Datarate    int
	TxPower     int
	NbRep       int
	ChannelMask Mask

	// BytesParsed holds the number of consumed payload bytes and Blocks the
	// number of consumed sub-blocks.
	BytesParsed int
	Blocks      int
}

// LinkADR processes a LinkADRReq command block. The active mask is only
// replaced when the block is fully accepted.
func (s *State) LinkADR(req LinkADRRequest) LinkADRResult {
	out := LinkADRResult{
		Datarate: req.CurrentDatarate,
		TxPower:  req.CurrentTxPower,
		NbRep:    req.CurrentNbRep,
	}

	var pl lorawan.LinkADRReqPayload
	var mask Mask
	var status Status

	for out.BytesParsed < len(req.Payload) {
		b := req.Payload[out.BytesParsed:]
		if lorawan.CID(b[0]) != lorawan.LinkADRReq || len(b) < linkADRBlockSize {
			break
		}

		// ChMask unmarshaling only sets bits
		pl = lorawan.LinkADRReqPayload{}
		if err := pl.UnmarshalBinary(b[1:linkADRBlockSize]); err != nil {
			break
		}

		out.BytesParsed += linkADRBlockSize
		out.Blocks++

		// only the last sub-block defines the channel-mask status
		mask, status = s.linkADRMask(pl, Accepted)
	}

	if out.Blocks == 0 {
		out.Status = 0
		return out
	}

	if mask.Count() == 0 {
		status &^= ChannelOK
	}

	dr := int(pl.DataRate)
	txPower := int(pl.TXPower)
	nbRep := int(pl.Redundancy.NbRep)

	if !req.ADREnabled {
		dr = req.CurrentDatarate
		txPower = req.CurrentTxPower
		nbRep = req.CurrentNbRep
	}

	if status != 0 {
		if !s.verifyMaskDatarate(mask, dr) {
			status &^= DatarateOK
		}

		if !valueInRange(txPower, s.profile.MaxTxPower, s.profile.MinTxPower) {
			if txPower < s.profile.MaxTxPower {
				txPower = s.profile.MaxTxPower
			} else {
				status &^= ParamOK
			}
		}
	}

	if status == Accepted && nbRep == 0 {
		nbRep = 1
	}

	if status == Accepted {
		s.active.copyFrom(mask)
		s.remaining.copyFrom(mask)
	}

	out.Status = status
	out.Datarate = dr
	out.TxPower = txPower
	out.NbRep = nbRep
	out.ChannelMask = mask
	return out
}

// linkADRMask computes the channel-mask of a single sub-block.
func (s *State) linkADRMask(pl lorawan.LinkADRReqPayload, status Status) (Mask, Status) {
	mask := NewMask(s.profile.MaxChannels)
	cntl := pl.Redundancy.ChMaskCntl

	switch {
	case cntl == 6:
		for id := range s.channels {
			if s.channels[id].Frequency != 0 {
				mask.Set(id)
			}
		}
	case cntl != 0:
		status &^= ChannelOK
	default:
		empty := true
		for i, set := range pl.ChMask {
			if !set || i >= s.profile.MaxChannels {
				continue
			}
			empty = false
			mask.Set(i)
			if s.channels[i].Frequency == 0 {
				status &^= ChannelOK
			}
		}
		if empty {
			status &^= ChannelOK
		}
	}

	return mask, status
}

// verifyMaskDatarate returns true when the data-rate is within the tx bounds
// and supported by at least one channel of the mask.
func (s *State) verifyMaskDatarate(mask Mask, dr int) bool {
	if !valueInRange(dr, s.profile.TxMinDR, s.profile.TxMaxDR) {
		return false
	}
	for id := range s.channels {
		if s.enabled(mask, id) && s.channels[id].DRRange.Contains(dr) {
			return true
		}
	}
	return false
}
