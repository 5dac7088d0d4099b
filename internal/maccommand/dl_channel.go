package maccommand

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/lorawan"
)

func handleDLChannelReq(ctx context.Context, s *region.State, cmd lorawan.MACCommand) ([]lorawan.MACCommand, error) {
	pl, ok := cmd.Payload.(*lorawan.DLChannelReqPayload)
	if !ok {
		return nil, fmt.Errorf("expected *lorawan.DLChannelReqPayload, got %T", cmd.Payload)
	}

	status := s.DlChannel(int(pl.ChIndex), pl.Freq)
	if status != region.ChannelAccepted {
		rejected(ctx, cmd.CID, status)
	} else {
		logging.WithContext(ctx).WithFields(log.Fields{
			"channel":       pl.ChIndex,
			"rx1_frequency": pl.Freq,
		}).Info("maccommand: dl_channel request accepted")
	}

	// the data-rate bit reports the existence of the uplink channel
	return []lorawan.MACCommand{
		{
			CID: lorawan.DLChannelAns,
			Payload: &lorawan.DLChannelAnsPayload{
				ChannelFrequencyOK:    status.Has(region.ChannelOK),
				UplinkFrequencyExists: status.Has(region.DatarateOK),
			},
		},
	}, nil
}
