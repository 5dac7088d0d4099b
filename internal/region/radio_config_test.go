package region_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brocaar/chirpstack-region/internal/region"
)

func TestMaxEIRP(t *testing.T) {
	assert := require.New(t)
	env := newTestEnv(t, region.KR920())

	assert.Equal(10.0, env.State.MaxEIRP(920900000))
	assert.Equal(10.0, env.State.MaxEIRP(921900000))
	assert.Equal(14.0, env.State.MaxEIRP(922100000))
	assert.Equal(14.0, env.State.MaxEIRP(923300000))
}

func TestTxConfig(t *testing.T) {
	t.Run("high sub-band", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		res, err := env.State.TxConfig(region.TxConfigParams{
			Channel:     1,
			Datarate:    5,
			TxPower:     1,
			AntennaGain: 2.15,
			PktLen:      13,
		})
		assert.NoError(err)
		assert.Equal(1, res.TxPower)
		// floor(14 - 2 - 2.15)
		assert.Equal(9, res.PhyTxPower)
		assert.Equal(47*time.Millisecond, res.TimeOnAir)

		assert.Equal(uint32(922300000), env.Radio.Frequency)
		assert.Equal(13, env.Radio.MaxPayloadLength)
		assert.Equal(region.TxRadioConfig{
			Power:           9,
			Bandwidth:       0,
			SpreadingFactor: 7,
			CodingRate:      1,
			PreambleLength:  8,
			CRC:             true,
			Timeout:         3 * time.Second,
		}, env.Radio.TxConfig)
	})

	t.Run("low sub-band and mac max eirp", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())
		assert.NoError(env.State.AddChannel(8, region.Channel{Frequency: 921100000, DRRange: region.DRRange{Max: 5}}))

		res, err := env.State.TxConfig(region.TxConfigParams{Channel: 8, Datarate: 0, PktLen: 13})
		assert.NoError(err)
		assert.Equal(10, res.PhyTxPower)

		res, err = env.State.TxConfig(region.TxConfigParams{Channel: 1, Datarate: 0, MaxEIRP: 12, PktLen: 13})
		assert.NoError(err)
		assert.Equal(12, res.PhyTxPower)
	})

	t.Run("band ceiling", func(t *testing.T) {
		assert := require.New(t)
		p := region.KR920()
		p.Bands[0].TxMaxPower = 2
		env := newTestEnv(t, p)

		res, err := env.State.TxConfig(region.TxConfigParams{Channel: 0, Datarate: 0, TxPower: 0})
		assert.NoError(err)
		assert.Equal(2, res.TxPower)
		assert.Equal(10, res.PhyTxPower)
	})

	t.Run("undefined channel", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		_, err := env.State.TxConfig(region.TxConfigParams{Channel: 10})
		assert.Error(err)
	})
}

func TestRxConfig(t *testing.T) {
	t.Run("rx1 uses uplink frequency", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		dr, err := env.State.RxConfig(region.RxConfigParams{Channel: 2, Datarate: 3, WindowTimeout: 8})
		assert.NoError(err)
		assert.Equal(3, dr)
		assert.Equal(uint32(922500000), env.Radio.Frequency)
		assert.Equal(115+region.FRMPayloadOverhead, env.Radio.MaxPayloadLength)
		assert.Equal(9, env.Radio.RxConfig.SpreadingFactor)
		assert.Equal(uint32(8), env.Radio.RxConfig.SymbolTimeout)
	})

	t.Run("rx1 uses rx1 frequency", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())
		assert.Equal(region.ChannelAccepted, env.State.DlChannel(2, 921100000))

		_, err := env.State.RxConfig(region.RxConfigParams{Channel: 2, Datarate: 0})
		assert.NoError(err)
		assert.Equal(uint32(921100000), env.Radio.Frequency)
	})

	t.Run("rx2", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		_, err := env.State.RxConfig(region.RxConfigParams{Window: 1, Frequency: 921900000, Datarate: 5, Repeater: true})
		assert.NoError(err)
		assert.Equal(uint32(921900000), env.Radio.Frequency)
		assert.Equal(222+region.FRMPayloadOverhead, env.Radio.MaxPayloadLength)
	})

	t.Run("radio busy", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())
		env.Radio.SetIdle(false)

		_, err := env.State.RxConfig(region.RxConfigParams{Channel: 0})
		assert.Equal(region.ErrRadioBusy, err)
	})
}

func TestComputeRxWindowParameters(t *testing.T) {
	assert := require.New(t)
	env := newTestEnv(t, region.KR920())

	// SF7/125 kHz: symbol time 1.024 ms
	p := env.State.ComputeRxWindowParameters(5, 6, 10*time.Millisecond, 3*time.Millisecond)
	assert.Equal(5, p.Datarate)
	assert.Equal(0, p.Bandwidth)
	// ceil((4 * 1.024 + 20) / 1.024) = 24
	assert.Equal(uint32(24), p.WindowTimeout)
	// ceil(4.096 - 12.288 - 3) = -11
	assert.Equal(-11*time.Millisecond, p.WindowOffset)

	// data-rate is capped at the max. rx data-rate
	p = env.State.ComputeRxWindowParameters(9, 6, 0, 0)
	assert.Equal(5, p.Datarate)
	assert.Equal(uint32(6), p.WindowTimeout)
}

func TestAlternateDr(t *testing.T) {
	env := newTestEnv(t, region.KR920())

	tests := []struct {
		Trials   int
		Expected int
	}{
		{1, 5}, {8, 4}, {16, 3}, {24, 2}, {32, 1}, {48, 0}, {96, 0}, {40, 4},
	}

	for _, tst := range tests {
		assert := require.New(t)
		assert.Equal(tst.Expected, env.State.AlternateDr(tst.Trials), "trials %d", tst.Trials)
	}
}

func TestApplyDrOffset(t *testing.T) {
	assert := require.New(t)
	env := newTestEnv(t, region.KR920())

	assert.Equal(3, env.State.ApplyDrOffset(5, 2))
	assert.Equal(0, env.State.ApplyDrOffset(2, 5))
}

func TestSetContinuousWave(t *testing.T) {
	assert := require.New(t)
	env := newTestEnv(t, region.KR920())

	assert.NoError(env.State.SetContinuousWave(region.ContinuousWaveParams{
		Channel: 0,
		TxPower: 2,
		Timeout: 10 * time.Second,
	}))
	assert.Equal(uint32(922100000), env.Radio.ContinuousWave.Frequency)
	assert.Equal(10, env.Radio.ContinuousWave.Power)
	assert.Equal(10*time.Second, env.Radio.ContinuousWave.Timeout)
}
