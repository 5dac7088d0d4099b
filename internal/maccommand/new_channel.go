package maccommand

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/lorawan"
)

func handleNewChannelReq(ctx context.Context, s *region.State, cmd lorawan.MACCommand) ([]lorawan.MACCommand, error) {
	pl, ok := cmd.Payload.(*lorawan.NewChannelReqPayload)
	if !ok {
		return nil, fmt.Errorf("expected *lorawan.NewChannelReqPayload, got %T", cmd.Payload)
	}

	status := s.NewChannel(int(pl.ChIndex), region.Channel{
		Frequency: pl.Freq,
		DRRange: region.DRRange{
			Min: int(pl.MinDR),
			Max: int(pl.MaxDR),
		},
	})

	if status != region.ChannelAccepted {
		rejected(ctx, cmd.CID, status)
	} else {
		logging.WithContext(ctx).WithFields(log.Fields{
			"frequency": pl.Freq,
			"channel":   pl.ChIndex,
			"min_dr":    pl.MinDR,
			"max_dr":    pl.MaxDR,
		}).Info("maccommand: new_channel request accepted")
	}

	return []lorawan.MACCommand{
		{
			CID: lorawan.NewChannelAns,
			Payload: &lorawan.NewChannelAnsPayload{
				ChannelFrequencyOK: status.Has(region.ChannelOK),
				DataRateRangeOK:    status.Has(region.DatarateOK),
			},
		},
	}, nil
}
