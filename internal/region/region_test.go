package region_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/brocaar/lorawan"
	"github.com/stretchr/testify/require"

	"github.com/brocaar/chirpstack-region/internal/radio"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/chirpstack-region/internal/timer"
)

var testEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	State *region.State
	Radio *radio.Simulator
	Timer *timer.Manual
}

func newTestEnv(t *testing.T, p region.Profile) testEnv {
	env := testEnv{
		Radio: radio.New(920000000, 925000000),
		Timer: timer.NewManual(testEpoch),
	}

	s, err := region.New(p, env.Radio, env.Timer, region.WithRandSource(rand.NewSource(1)))
	require.NoError(t, err)
	env.State = s
	return env
}

// linkADRPayload returns the wire encoding of the given LinkADRReq commands.
func linkADRPayload(t *testing.T, pls ...lorawan.LinkADRReqPayload) []byte {
	var out []byte
	for _, pl := range pls {
		b, err := pl.MarshalBinary()
		require.NoError(t, err)
		out = append(out, byte(lorawan.LinkADRReq))
		out = append(out, b...)
	}
	return out
}

func maskOf(n int, ids ...int) region.Mask {
	m := region.NewMask(n)
	for _, id := range ids {
		m.Set(id)
	}
	return m
}
