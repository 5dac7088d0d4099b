package region_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brocaar/chirpstack-region/internal/region"
)

func dutyCycleProfile() region.Profile {
	p := region.KR920()
	p.Bands[0].DutyCycle = 100
	p.DutyCycleEnabled = true
	return p
}

func TestCalcBackOff(t *testing.T) {
	tests := []struct {
		Name            string
		Profile         region.Profile
		Params          region.TxDoneParams
		ExpectedTimeOff time.Duration
	}{
		{
			Name:    "joined duty-cycle enabled",
			Profile: dutyCycleProfile(),
			Params: region.TxDoneParams{
				Joined:           true,
				DutyCycleEnabled: true,
				TxTimeOnAir:      100 * time.Millisecond,
			},
			ExpectedTimeOff: 9900 * time.Millisecond,
		},
		{
			Name:    "joined duty-cycle disabled",
			Profile: dutyCycleProfile(),
			Params: region.TxDoneParams{
				Joined:      true,
				TxTimeOnAir: 100 * time.Millisecond,
			},
		},
		{
			Name:    "join-request during first hour",
			Profile: region.KR920(),
			Params: region.TxDoneParams{
				LastTxIsJoinRequest: true,
				ElapsedTime:         time.Minute,
				TxTimeOnAir:         100 * time.Millisecond,
			},
			ExpectedTimeOff: 9900 * time.Millisecond,
		},
		{
			Name:    "join-request during first eleven hours",
			Profile: region.KR920(),
			Params: region.TxDoneParams{
				LastTxIsJoinRequest: true,
				ElapsedTime:         2 * time.Hour,
				TxTimeOnAir:         100 * time.Millisecond,
			},
			ExpectedTimeOff: 99900 * time.Millisecond,
		},
		{
			Name:    "join-request afterwards",
			Profile: region.KR920(),
			Params: region.TxDoneParams{
				LastTxIsJoinRequest: true,
				ElapsedTime:         12 * time.Hour,
				TxTimeOnAir:         100 * time.Millisecond,
			},
			ExpectedTimeOff: 999900 * time.Millisecond,
		},
		{
			Name:    "not joined, no join-request, duty-cycle disabled",
			Profile: region.KR920(),
			Params: region.TxDoneParams{
				ElapsedTime: time.Minute,
				TxTimeOnAir: 100 * time.Millisecond,
			},
		},
	}

	for _, tst := range tests {
		t.Run(tst.Name, func(t *testing.T) {
			assert := require.New(t)
			env := newTestEnv(t, tst.Profile)

			env.State.OnTransmitComplete(tst.Params)
			bands := env.State.Bands()
			assert.Equal(tst.ExpectedTimeOff, bands[0].TimeOff)
			assert.Equal(testEpoch, bands[0].LastTxDone)
		})
	}
}

func TestUpdateBandTimeOff(t *testing.T) {
	t.Run("time-off decreases as time elapses", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, dutyCycleProfile())

		env.State.OnTransmitComplete(region.TxDoneParams{
			Joined:           true,
			DutyCycleEnabled: true,
			TxTimeOnAir:      100 * time.Millisecond,
		})

		last := time.Hour
		for i := 0; i < 10; i++ {
			env.Timer.Advance(time.Second)
			next := env.State.UpdateBandTimeOff(true, true)
			assert.True(next <= last)
			assert.True(next >= 0)
			last = next
		}
		assert.Equal(time.Duration(0), last)
		assert.Equal(time.Duration(0), env.State.Bands()[0].TimeOff)
	})

	t.Run("remaining time-off is reported", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, dutyCycleProfile())

		env.State.OnTransmitComplete(region.TxDoneParams{
			Joined:           true,
			DutyCycleEnabled: true,
			TxTimeOnAir:      100 * time.Millisecond,
		})
		env.Timer.Advance(4 * time.Second)
		assert.Equal(5900*time.Millisecond, env.State.UpdateBandTimeOff(true, true))

		// update without elapsed time doesn't change the time-off
		assert.Equal(5900*time.Millisecond, env.State.UpdateBandTimeOff(true, true))
	})

	t.Run("joined and duty-cycle disabled clears time-off", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, dutyCycleProfile())

		env.State.OnTransmitComplete(region.TxDoneParams{
			Joined:           true,
			DutyCycleEnabled: true,
			TxTimeOnAir:      100 * time.Millisecond,
		})
		assert.Equal(time.Duration(0), env.State.UpdateBandTimeOff(true, false))
		assert.Equal(time.Duration(0), env.State.Bands()[0].TimeOff)
	})

	t.Run("join back-off is tracked with duty-cycle disabled", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		env.State.OnTransmitComplete(region.TxDoneParams{
			LastTxIsJoinRequest: true,
			ElapsedTime:         time.Minute,
			TxTimeOnAir:         100 * time.Millisecond,
		})
		env.Timer.Advance(900 * time.Millisecond)
		assert.Equal(9*time.Second, env.State.UpdateBandTimeOff(false, false))
	})
}
