package maccommand

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/lorawan"
)

func handleDutyCycleReq(ctx context.Context, sess *Session, cmd lorawan.MACCommand) ([]lorawan.MACCommand, error) {
	pl, ok := cmd.Payload.(*lorawan.DutyCycleReqPayload)
	if !ok {
		return nil, fmt.Errorf("expected *lorawan.DutyCycleReqPayload, got %T", cmd.Payload)
	}

	sess.MaxDutyCycle = pl.MaxDCycle & 0x0f

	logging.WithContext(ctx).WithFields(log.Fields{
		"max_duty_cycle": sess.MaxDutyCycle,
	}).Info("maccommand: duty_cycle request accepted")

	return []lorawan.MACCommand{{CID: lorawan.DutyCycleAns}}, nil
}
