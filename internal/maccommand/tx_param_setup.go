package maccommand

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/lorawan"
)

// handleTXParamSetupReq applies the TXParamSetupReq. Regions which don't
// implement the command don't answer it.
func handleTXParamSetupReq(ctx context.Context, s *region.State, cmd lorawan.MACCommand) ([]lorawan.MACCommand, error) {
	pl, ok := cmd.Payload.(*lorawan.TXParamSetupReqPayload)
	if !ok {
		return nil, fmt.Errorf("expected *lorawan.TXParamSetupReqPayload, got %T", cmd.Payload)
	}

	err := s.TxParamSetup(region.TxParamSetupParams{
		UplinkDwellTime:   pl.UplinkDwellTime == lorawan.DwellTime400ms,
		DownlinkDwellTime: pl.DownlinkDwelltime == lorawan.DwellTime400ms,
		MaxEIRP:           pl.MaxEIRP,
	})
	if errors.Cause(err) == region.ErrUnsupported {
		logging.WithContext(ctx).WithFields(log.Fields{
			"region": s.Profile().Name,
		}).Info("maccommand: tx_param_setup not supported by region, ignoring")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "tx_param_setup error")
	}

	logging.WithContext(ctx).WithFields(log.Fields{
		"uplink_dwell_time_400ms":   pl.UplinkDwellTime == lorawan.DwellTime400ms,
		"downlink_dwell_time_400ms": pl.DownlinkDwelltime == lorawan.DwellTime400ms,
		"max_eirp":                  pl.MaxEIRP,
	}).Info("maccommand: tx_param_setup request accepted")

	return []lorawan.MACCommand{{CID: lorawan.TXParamSetupAns}}, nil
}
