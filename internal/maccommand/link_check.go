package maccommand

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/lorawan"
)

func handleLinkCheckAns(ctx context.Context, sess *Session, cmd lorawan.MACCommand) ([]lorawan.MACCommand, error) {
	pl, ok := cmd.Payload.(*lorawan.LinkCheckAnsPayload)
	if !ok {
		return nil, fmt.Errorf("expected *lorawan.LinkCheckAnsPayload, got %T", cmd.Payload)
	}

	sess.LinkCheckMargin = pl.Margin
	sess.LinkCheckGwCnt = pl.GwCnt

	logging.WithContext(ctx).WithFields(log.Fields{
		"margin": pl.Margin,
		"gw_cnt": pl.GwCnt,
	}).Info("maccommand: link_check answer received")

	return nil, nil
}
