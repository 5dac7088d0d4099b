package maccommand

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/lorawan"
)

// handleRXTimingSetupReq sets the RX1 delay. A delay of 0 means 1 second.
func handleRXTimingSetupReq(ctx context.Context, sess *Session, cmd lorawan.MACCommand) ([]lorawan.MACCommand, error) {
	pl, ok := cmd.Payload.(*lorawan.RXTimingSetupReqPayload)
	if !ok {
		return nil, fmt.Errorf("expected *lorawan.RXTimingSetupReqPayload, got %T", cmd.Payload)
	}

	del := pl.Delay & 0x0f
	if del == 0 {
		del = 1
	}
	sess.RXDelay1 = time.Duration(del) * time.Second

	logging.WithContext(ctx).WithFields(log.Fields{
		"rx_delay": sess.RXDelay1,
	}).Info("maccommand: rx_timing_setup request accepted")

	return []lorawan.MACCommand{{CID: lorawan.RXTimingSetupAns}}, nil
}
