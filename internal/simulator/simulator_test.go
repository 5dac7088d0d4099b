package simulator

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/brocaar/chirpstack-region/internal/adr"
	"github.com/brocaar/chirpstack-region/internal/config"
	"github.com/brocaar/chirpstack-region/internal/radio"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/chirpstack-region/internal/timer"
)

type testEnv struct {
	state *region.State
	timer *timer.Manual
}

func newTestEnv(t *testing.T, p region.Profile) testEnv {
	tm := timer.NewManual(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	s, err := region.New(p, radio.New(920000000, 925000000), tm, region.WithRandSource(rand.NewSource(1)))
	require.NoError(t, err)
	return testEnv{state: s, timer: tm}
}

func runSimulation(t *testing.T, env testEnv, c config.Config) Report {
	sim, err := New(env.state, env.timer, adr.NewDefaultHandler(env.state), c)
	require.NoError(t, err)

	rep, err := sim.Run(context.Background())
	require.NoError(t, err)
	return rep
}

func TestSimulator(t *testing.T) {
	t.Run("joined without adr", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		var c config.Config
		c.Simulator.Uplinks = 20
		c.Simulator.PayloadSize = 10
		c.Simulator.Joined = true
		c.Simulator.Interval = time.Minute

		uplinks := testutil.ToFloat64(uplinkCounter(0))
		rep := runSimulation(t, env, c)

		assert.Equal(20, rep.Uplinks)
		assert.Equal(0, rep.JoinRequests)
		assert.Equal(map[int]int{0: 20}, rep.Datarates)
		assert.Equal(0, rep.Delayed)
		assert.Equal(uplinks+20, testutil.ToFloat64(uplinkCounter(0)))

		var total int
		for ch, n := range rep.Channels {
			assert.True(ch >= 0 && ch < 7)
			total += n
		}
		assert.Equal(20, total)
	})

	t.Run("join with cflist", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		var c config.Config
		c.Simulator.Uplinks = 3
		c.Simulator.PayloadSize = 10
		c.Simulator.CFList = "788c8c48948c00000000000000000000"

		rep := runSimulation(t, env, c)
		assert.Equal(1, rep.JoinRequests)
		assert.Equal(3, rep.Uplinks)
		assert.Equal(1, rep.Datarates[5])
		assert.Equal(3, rep.Datarates[0])
		assert.Equal(region.Mask{0x001f}, rep.ChannelMask)

		ch, err := env.state.Channel(3)
		assert.NoError(err)
		assert.Equal(uint32(921100000), ch.Frequency)
	})

	t.Run("adr ramp down", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		var c config.Config
		c.Simulator.Uplinks = 300
		c.Simulator.PayloadSize = 10
		c.Simulator.Joined = true
		c.Simulator.ADR = true
		c.Simulator.ADRUpdateChannelMask = true
		c.Simulator.MACCommands = []config.MACCommand{
			{AtUplink: 0, Payload: "0350070001"},
		}

		rep := runSimulation(t, env, c)
		assert.Equal(300, rep.Uplinks)
		assert.Equal(1, rep.Answers)
		assert.Equal(0, rep.Session.DR)
		assert.Equal(0, rep.Session.TxPowerIndex)
		assert.True(rep.Datarates[5] > 0)
		assert.True(rep.Datarates[4] > 0)
		assert.Equal(region.Mask{0x0007}, rep.ChannelMask)
	})

	t.Run("duty cycle", func(t *testing.T) {
		assert := require.New(t)
		p := region.KR920()
		p.Bands[0].DutyCycle = 100
		p.DutyCycleEnabled = true
		env := newTestEnv(t, p)

		var c config.Config
		c.Simulator.Uplinks = 5
		c.Simulator.PayloadSize = 10
		c.Simulator.Joined = true

		rep := runSimulation(t, env, c)
		assert.Equal(5, rep.Uplinks)
		assert.Equal(4, rep.Delayed)
		assert.True(rep.TotalDelay > 0)
	})

	t.Run("invalid mac-command payload", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		var c config.Config
		c.Simulator.MACCommands = []config.MACCommand{
			{AtUplink: 0, Payload: "zz"},
		}

		_, err := New(env.state, env.timer, adr.NewDefaultHandler(env.state), c)
		assert.Error(err)
	})
}
