package region_test

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/brocaar/chirpstack-region/internal/region"
)

const testProfile = `
name: TEST
max_channels: 8
num_default_channels: 2
num_cflist_channels: 5
channels:
  - frequency: 868100000
    dr_range: {min: 0, max: 5}
  - frequency: 868300000
    dr_range: {min: 0, max: 5}
join_channels: [0, 1]
adr_recovery_channels: [0, 1]
bands:
  - duty_cycle: 100
    tx_max_power: 0
frequencies: {min: 863000000, max: 870000000, step: 100000}
tx_min_dr: 0
tx_max_dr: 5
rx_min_dr: 0
rx_max_dr: 5
default_max_tx_dr: 5
max_rx1_dr_offset: 5
min_tx_power: 7
eirp:
  - from_frequency: 0
    max_eirp: 16
data_rates:
  - {spreading_factor: 12, bandwidth: 125000}
  - {spreading_factor: 11, bandwidth: 125000}
  - {spreading_factor: 10, bandwidth: 125000}
  - {spreading_factor: 9, bandwidth: 125000}
  - {spreading_factor: 8, bandwidth: 125000}
  - {spreading_factor: 7, bandwidth: 125000}
max_payload: [51, 51, 51, 115, 242, 242]
max_payload_repeater: [51, 51, 51, 115, 222, 222]
adr_ack_limit: 64
adr_ack_delay: 32
duty_cycle_enabled: true
receive_delay1: 1s
receive_delay2: 2s
join_accept_delay1: 5s
join_accept_delay2: 6s
rx2_frequency: 869525000
nb_join_trials: 48
`

func TestLoadProfile(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		assert := require.New(t)

		p, err := region.LoadProfile(strings.NewReader(testProfile))
		assert.NoError(err)
		assert.Equal("TEST", p.Name)
		assert.Equal(8, p.MaxChannels)
		assert.Len(p.Channels, 2)
		assert.Equal(uint16(100), p.Bands[0].DutyCycle)
		assert.Equal(time.Second, p.ReceiveDelay1)
		assert.Equal(6*time.Second, p.JoinAcceptDelay2)
		assert.True(p.DutyCycleEnabled)

		env := newTestEnv(t, p)
		assert.Equal(region.Mask{0x0003}, env.State.Mask(region.DefaultMask))
	})

	t.Run("unknown field", func(t *testing.T) {
		assert := require.New(t)
		_, err := region.LoadProfile(strings.NewReader(testProfile + "foo: bar\n"))
		assert.Error(err)
	})

	t.Run("invalid profile", func(t *testing.T) {
		assert := require.New(t)
		_, err := region.LoadProfile(strings.NewReader(strings.Replace(testProfile, "max_channels: 8", "max_channels: 1", 1)))
		assert.Error(err)
	})
}

func TestGetProfile(t *testing.T) {
	assert := require.New(t)

	p, err := region.GetProfile("kr920")
	assert.NoError(err)
	assert.NoError(p.Validate())
	assert.Equal("KR920", p.Name)

	_, err = region.GetProfile("EU868")
	assert.Equal(region.ErrUnknownProfile, errors.Cause(err))
}
