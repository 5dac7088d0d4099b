package storage

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brocaar/chirpstack-region/internal/radio"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/chirpstack-region/internal/timer"
)

func (ts *StorageTestSuite) TestRegionState() {
	assert := require.New(ts.T())
	ctx := context.Background()

	s, err := region.New(
		region.KR920(),
		radio.New(920000000, 925000000),
		timer.NewManual(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		region.WithRandSource(rand.NewSource(1)),
	)
	assert.NoError(err)
	assert.NoError(s.AddChannel(8, region.Channel{Frequency: 921100000, DRRange: region.DRRange{Max: 5}}))
	snap := s.Snapshot()

	ts.T().Run("Get not existing", func(t *testing.T) {
		assert := require.New(t)
		_, err := GetRegionState(ctx, "dev-1")
		assert.Equal(ErrDoesNotExist, err)
	})

	ts.T().Run("Save", func(t *testing.T) {
		assert := require.New(t)
		assert.NoError(SaveRegionState(ctx, "dev-1", snap))

		t.Run("Get", func(t *testing.T) {
			assert := require.New(t)
			out, err := GetRegionState(ctx, "dev-1")
			assert.NoError(err)
			assert.Equal(snap.Profile, out.Profile)
			assert.Equal(snap.Channels, out.Channels)
			assert.Equal(snap.ActiveMask, out.ActiveMask)
			assert.Equal(snap.DefaultMask, out.DefaultMask)
			assert.True(snap.Bands[0].LastUpdate.Equal(out.Bands[0].LastUpdate))

			restored, err := region.New(region.KR920(), radio.New(920000000, 925000000), timer.NewManual(time.Now()))
			assert.NoError(err)
			assert.NoError(restored.Restore(out))

			ch, err := restored.Channel(8)
			assert.NoError(err)
			assert.Equal(uint32(921100000), ch.Frequency)
		})

		t.Run("Delete", func(t *testing.T) {
			assert := require.New(t)
			assert.NoError(DeleteRegionState(ctx, "dev-1"))
			assert.Equal(ErrDoesNotExist, DeleteRegionState(ctx, "dev-1"))
		})
	})
}
