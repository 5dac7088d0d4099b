// Package maccommand handles the mac-commands received by an end-device in
// a downlink frame and builds the uplink answers.
package maccommand

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/lorawan"
)

// Session holds the MAC layer parameters of the end-device which are
// modified by mac-commands.
type Session struct {
	ADR          bool
	DR           int
	TxPowerIndex int
	NbTrans      int

	RX1DROffset  int
	RX2Frequency uint32
	RX2DR        int
	RXDelay1     time.Duration

	// MaxDutyCycle holds the aggregated duty-cycle exponent (1/2^n).
	MaxDutyCycle uint8

	// Battery and Margin are reported in the DevStatusAns.
	Battery uint8
	Margin  int8

	// LinkCheckMargin and LinkCheckGwCnt hold the last LinkCheckAns.
	LinkCheckMargin uint8
	LinkCheckGwCnt  uint8
}

// NewSession returns a Session initialized to the defaults of the given
// region state.
func NewSession(s *region.State) Session {
	p := s.Profile()
	return Session{
		DR:           p.DefaultDR,
		TxPowerIndex: p.DefaultTxPower,
		NbTrans:      1,
		RX1DROffset:  p.DefaultDROffset,
		RX2Frequency: p.RX2Frequency,
		RX2DR:        p.RX2DR,
		RXDelay1:     p.ReceiveDelay1,
	}
}

// HandleResponse holds the outcome of handling a mac-command block.
type HandleResponse struct {
	// Answers holds the mac-commands to send with the next uplink.
	Answers []lorawan.MACCommand

	// LinkADR holds the LinkADRReq outcome, nil when the block did not
	// contain a LinkADRReq.
	LinkADR *region.LinkADRResult

	// Unhandled holds the remaining bytes after an unknown or truncated
	// mac-command.
	Unhandled []byte
}

// Handle handles the given downlink mac-command block and updates the
// session and region state.
func Handle(ctx context.Context, s *region.State, sess *Session, b []byte) (HandleResponse, error) {
	var out HandleResponse

	for i := 0; i < len(b); {
		cid := lorawan.CID(b[i])

		if cid == lorawan.LinkADRReq {
			res := handleLinkADRReq(ctx, s, sess, b[i:])
			if res.Blocks == 0 {
				out.Unhandled = b[i:]
				break
			}

			for j := 0; j < res.Blocks; j++ {
				out.Answers = append(out.Answers, linkADRAns(res.Status))
			}
			out.LinkADR = &res
			i += res.BytesParsed
			continue
		}

		size, err := payloadSize(cid)
		if err != nil {
			logging.WithContext(ctx).WithFields(log.Fields{
				"cid": cid,
			}).Warning("maccommand: unknown mac-command, skipping remaining bytes")
			out.Unhandled = b[i:]
			unknownCounter().Inc()
			break
		}

		if len(b[i+1:]) < size {
			logging.WithContext(ctx).WithFields(log.Fields{
				"cid": cid,
			}).Warning("maccommand: truncated mac-command")
			out.Unhandled = b[i:]
			break
		}

		var cmd lorawan.MACCommand
		if err := cmd.UnmarshalBinary(false, b[i:i+1+size]); err != nil {
			return out, errors.Wrap(err, "unmarshal mac-command error")
		}
		i += 1 + size

		ans, err := handle(ctx, s, sess, cmd)
		if err != nil {
			return out, errors.Wrapf(err, "handle %s error", cmd.CID)
		}
		out.Answers = append(out.Answers, ans...)
	}

	return out, nil
}

func handle(ctx context.Context, s *region.State, sess *Session, cmd lorawan.MACCommand) ([]lorawan.MACCommand, error) {
	handledCounter(cmd.CID).Inc()

	switch cmd.CID {
	case lorawan.LinkCheckAns:
		return handleLinkCheckAns(ctx, sess, cmd)
	case lorawan.DutyCycleReq:
		return handleDutyCycleReq(ctx, sess, cmd)
	case lorawan.RXParamSetupReq:
		return handleRXParamSetupReq(ctx, s, sess, cmd)
	case lorawan.DevStatusReq:
		return handleDevStatusReq(ctx, sess)
	case lorawan.NewChannelReq:
		return handleNewChannelReq(ctx, s, cmd)
	case lorawan.RXTimingSetupReq:
		return handleRXTimingSetupReq(ctx, sess, cmd)
	case lorawan.TXParamSetupReq:
		return handleTXParamSetupReq(ctx, s, cmd)
	case lorawan.DLChannelReq:
		return handleDLChannelReq(ctx, s, cmd)
	default:
		logging.WithContext(ctx).WithFields(log.Fields{
			"cid": cmd.CID,
		}).Info("maccommand: mac-command not supported, ignoring")
		return nil, nil
	}
}

// payloadSize returns the payload size of the given downlink mac-command.
func payloadSize(cid lorawan.CID) (int, error) {
	if cid == lorawan.DevStatusReq {
		return 0, nil
	}
	_, size, err := lorawan.GetMACPayloadAndSize(false, cid)
	if err != nil {
		return 0, err
	}
	return size, nil
}

// MarshalAnswers returns the wire encoding of the given answers.
func MarshalAnswers(cmds []lorawan.MACCommand) ([]byte, error) {
	var out []byte
	for _, cmd := range cmds {
		b, err := cmd.MarshalBinary()
		if err != nil {
			return nil, errors.Wrap(err, "marshal mac-command error")
		}
		out = append(out, b...)
	}
	return out, nil
}

func rejected(ctx context.Context, cid lorawan.CID, status region.Status) {
	rejectedCounter(cid).Inc()
	logging.WithContext(ctx).WithFields(log.Fields{
		"cid":    cid,
		"status": status,
	}).Warning("maccommand: mac-command rejected")
}
