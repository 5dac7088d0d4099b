package adr

import (
	"github.com/brocaar/chirpstack-region/adr"
	"github.com/brocaar/chirpstack-region/internal/region"
)

// DefaultHandler implements the device-side ADR back-off algorithm.
type DefaultHandler struct {
	state *region.State
}

// NewDefaultHandler creates a DefaultHandler for the given region state.
func NewDefaultHandler(s *region.State) *DefaultHandler {
	return &DefaultHandler{state: s}
}

// ID returns the default ID.
func (h *DefaultHandler) ID() (string, error) {
	return "default", nil
}

// Name returns the default name.
func (h *DefaultHandler) Name() (string, error) {
	return "Default ADR back-off algorithm", nil
}

// Handle handles the ADR request.
//
// Once the ack counter reaches the ADR_ACK_LIMIT, the ack request flag is
// set and the max. tx-power is used for every further uplink. Every
// ADR_ACK_DELAY uplinks after that the data-rate is lowered by one step.
func (h *DefaultHandler) Handle(req adr.HandleRequest) (adr.HandleResponse, error) {
	resp := adr.HandleResponse{
		DR:           req.DR,
		TxPowerIndex: req.TxPowerIndex,
		AckCounter:   req.AckCounter,
	}

	if !req.ADR {
		return resp, nil
	}

	p := h.state.Profile()
	minDR := h.state.GetPhyParam(region.AttrMinTxDR, 0).Value

	if req.DR == minDR {
		resp.AckCounter = 0
		return resp, nil
	}

	if req.AckCounter >= p.ADRAckLimit {
		resp.AckRequest = true
		resp.TxPowerIndex = p.MaxTxPower
	}

	if req.AckCounter >= p.ADRAckLimit+p.ADRAckDelay && req.AckCounter%p.ADRAckDelay == 1 {
		resp.DR = h.state.GetPhyParam(region.AttrNextLowerTxDR, req.DR).Value

		if resp.DR == minDR {
			resp.AckRequest = false
			if req.UpdateChannelMask {
				h.state.EnableChannels(p.ADRRecoveryChannels...)
			}
		}
	}

	return resp, nil
}
