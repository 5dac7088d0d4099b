package maccommand

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/lorawan"
)

func handleDevStatusReq(ctx context.Context, sess *Session) ([]lorawan.MACCommand, error) {
	logging.WithContext(ctx).WithFields(log.Fields{
		"battery": sess.Battery,
		"margin":  sess.Margin,
	}).Debug("maccommand: dev_status request received")

	return []lorawan.MACCommand{
		{
			CID: lorawan.DevStatusAns,
			Payload: &lorawan.DevStatusAnsPayload{
				Battery: sess.Battery,
				Margin:  sess.Margin,
			},
		},
	}, nil
}
