package region_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brocaar/chirpstack-region/internal/region"
)

func TestMask(t *testing.T) {
	assert := require.New(t)

	m := region.NewMask(16)
	assert.Len(m, 1)
	assert.Len(region.NewMask(17), 2)

	m.Set(0)
	m.Set(15)
	m.Set(16) // out of range
	assert.True(m.IsSet(0))
	assert.True(m.IsSet(15))
	assert.False(m.IsSet(16))
	assert.Equal(region.Mask{0x8001}, m)
	assert.Equal(2, m.Count())

	c := m.Clone()
	c.Clear(0)
	assert.True(m.IsSet(0))
	assert.False(c.IsSet(0))

	c.Or(region.Mask{0x0006})
	assert.Equal(region.Mask{0x8006}, c)
}

func TestSetMask(t *testing.T) {
	assert := require.New(t)
	env := newTestEnv(t, region.KR920())

	assert.True(env.State.SetMask(region.ActiveMask, region.Mask{0x0003}))
	assert.Equal(region.Mask{0x0003}, env.State.Mask(region.ActiveMask))

	assert.True(env.State.SetMask(region.DefaultMask, region.Mask{0x0007, 0xffff}))
	assert.Equal(region.Mask{0x0007}, env.State.Mask(region.DefaultMask))

	assert.False(env.State.SetMask(region.RemainingMask, region.Mask{0x0001}))

	// returned masks are copies
	m := env.State.Mask(region.ActiveMask)
	m.Set(5)
	assert.False(env.State.Mask(region.ActiveMask).IsSet(5))

	env.State.MergeDefaultsIntoActive()
	assert.Equal(region.Mask{0x0007}, env.State.Mask(region.ActiveMask))
}

func TestInitDefaults(t *testing.T) {
	t.Run("init", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())

		assert.Equal(region.Mask{0x007f}, env.State.Mask(region.DefaultMask))
		assert.Equal(region.Mask{0x007f}, env.State.Mask(region.ActiveMask))

		channels := env.State.Channels()
		assert.Len(channels, 16)
		for i, f := range []uint32{922100000, 922300000, 922500000, 922700000, 922900000, 923100000, 923300000} {
			assert.Equal(f, channels[i].Frequency)
			assert.Equal(region.DRRange{Min: 0, Max: 5}, channels[i].DRRange)
		}
		for _, c := range channels[7:] {
			assert.Equal(region.Channel{}, c)
		}
	})

	t.Run("restore", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())
		assert.NoError(env.State.AddChannel(8, region.Channel{Frequency: 921100000, DRRange: region.DRRange{Max: 5}}))
		env.State.SetMask(region.ActiveMask, maskOf(16, 0, 8))

		env.State.InitDefaults(region.InitTypeRestore)
		assert.Equal(region.Mask{0x017f}, env.State.Mask(region.ActiveMask))
	})

	t.Run("app defaults", func(t *testing.T) {
		assert := require.New(t)
		env := newTestEnv(t, region.KR920())
		assert.NoError(env.State.AddChannel(8, region.Channel{Frequency: 921100000, DRRange: region.DRRange{Max: 5}}))
		env.State.SetMask(region.ActiveMask, maskOf(16, 0, 8))

		env.State.InitDefaults(region.InitTypeAppDefaults)
		assert.Equal(region.Mask{0x007f}, env.State.Mask(region.ActiveMask))
	})
}

func TestSnapshotRestore(t *testing.T) {
	assert := require.New(t)
	env := newTestEnv(t, region.KR920())

	assert.NoError(env.State.AddChannel(8, region.Channel{Frequency: 921100000, DRRange: region.DRRange{Min: 1, Max: 4}}))
	assert.Equal(region.ChannelAccepted, env.State.DlChannel(8, 921300000))
	env.State.SetMask(region.ActiveMask, maskOf(16, 0, 1, 8))
	snap := env.State.Snapshot()

	other := newTestEnv(t, region.KR920())
	assert.NoError(other.State.Restore(snap))

	assert.Equal(env.State.Channels(), other.State.Channels())
	// restore merges the default mask into the active mask
	assert.Equal(region.Mask{0x017f}, other.State.Mask(region.ActiveMask))

	snap.Profile = "EU868"
	assert.Error(other.State.Restore(snap))
}
