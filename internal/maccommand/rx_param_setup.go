package maccommand

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/lorawan"
)

func handleRXParamSetupReq(ctx context.Context, s *region.State, sess *Session, cmd lorawan.MACCommand) ([]lorawan.MACCommand, error) {
	pl, ok := cmd.Payload.(*lorawan.RXParamSetupReqPayload)
	if !ok {
		return nil, fmt.Errorf("expected *lorawan.RXParamSetupReqPayload, got %T", cmd.Payload)
	}

	status := s.RxParamSetup(region.RxParamSetupParams{
		Frequency: pl.Frequency,
		Datarate:  int(pl.DLSettings.RX2DataRate),
		DROffset:  int(pl.DLSettings.RX1DROffset),
	})

	if status == region.Accepted {
		sess.RX2Frequency = pl.Frequency
		sess.RX2DR = int(pl.DLSettings.RX2DataRate)
		sess.RX1DROffset = int(pl.DLSettings.RX1DROffset)

		logging.WithContext(ctx).WithFields(log.Fields{
			"rx2_frequency": pl.Frequency,
			"rx2_dr":        pl.DLSettings.RX2DataRate,
			"rx1_dr_offset": pl.DLSettings.RX1DROffset,
		}).Info("maccommand: rx_param_setup request accepted")
	} else {
		rejected(ctx, cmd.CID, status)
	}

	return []lorawan.MACCommand{
		{
			CID: lorawan.RXParamSetupAns,
			Payload: &lorawan.RXParamSetupAnsPayload{
				ChannelACK:     status.Has(region.ChannelOK),
				RX2DataRateACK: status.Has(region.DatarateOK),
				RX1DROffsetACK: status.Has(region.ParamOK),
			},
		},
	}, nil
}
