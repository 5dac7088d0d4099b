package maccommand

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/lorawan"
)

// handleLinkADRReq handles the consecutive LinkADRReq commands at the start
// of b. The session is only updated when the block is accepted.
func handleLinkADRReq(ctx context.Context, s *region.State, sess *Session, b []byte) region.LinkADRResult {
	res := s.LinkADR(region.LinkADRRequest{
		Payload:         b,
		ADREnabled:      sess.ADR,
		CurrentDatarate: sess.DR,
		CurrentTxPower:  sess.TxPowerIndex,
		CurrentNbRep:    sess.NbTrans,
	})
	if res.Blocks == 0 {
		return res
	}

	handledCounter(lorawan.LinkADRReq).Add(float64(res.Blocks))

	if res.Status != region.Accepted {
		rejected(ctx, lorawan.LinkADRReq, res.Status)
		return res
	}

	sess.DR = res.Datarate
	sess.TxPowerIndex = res.TxPower
	sess.NbTrans = res.NbRep

	logging.WithContext(ctx).WithFields(log.Fields{
		"dr":             res.Datarate,
		"tx_power_index": res.TxPower,
		"nb_trans":       res.NbRep,
		"channel_mask":   res.ChannelMask,
		"blocks":         res.Blocks,
	}).Info("maccommand: link_adr request accepted")

	return res
}

func linkADRAns(status region.Status) lorawan.MACCommand {
	return lorawan.MACCommand{
		CID: lorawan.LinkADRAns,
		Payload: &lorawan.LinkADRAnsPayload{
			ChannelMaskACK: status.Has(region.ChannelOK),
			DataRateACK:    status.Has(region.DatarateOK),
			PowerACK:       status.Has(region.ParamOK),
		},
	}
}
