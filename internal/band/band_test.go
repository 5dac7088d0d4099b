package band

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/brocaar/chirpstack-region/internal/config"
	"github.com/brocaar/chirpstack-region/internal/radio"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/chirpstack-region/internal/timer"
)

func TestSetup(t *testing.T) {
	t.Run("named profile with extra channels", func(t *testing.T) {
		assert := require.New(t)

		var c config.Config
		c.Region.Name = "KR_920_923"
		c.Region.DutyCycle = true
		c.Region.RepeaterCompatible = true
		c.Region.ExtraChannels = append(c.Region.ExtraChannels, config.ExtraChannel{Frequency: 921100000, MinDR: 0, MaxDR: 5})

		assert.NoError(Setup(c))
		assert.Equal("KR920", Profile().Name)
		assert.True(Profile().DutyCycleEnabled)
		assert.True(RepeaterCompatible())

		s, err := NewState(radio.New(920000000, 925000000), timer.NewManual(time.Now()))
		assert.NoError(err)

		ch, err := s.Channel(7)
		assert.NoError(err)
		assert.Equal(uint32(921100000), ch.Frequency)
		assert.True(s.Mask(region.ActiveMask).IsSet(7))
	})

	t.Run("invalid extra channel", func(t *testing.T) {
		assert := require.New(t)

		var c config.Config
		c.Region.Name = "KR920"
		c.Region.ExtraChannels = append(c.Region.ExtraChannels, config.ExtraChannel{Frequency: 868100000, MinDR: 0, MaxDR: 5})

		assert.NoError(Setup(c))
		_, err := NewState(radio.New(860000000, 925000000), timer.NewManual(time.Now()))
		assert.Error(err)
	})

	t.Run("unknown profile", func(t *testing.T) {
		assert := require.New(t)

		var c config.Config
		c.Region.Name = "XX123"
		assert.Error(Setup(c))
	})

	t.Run("profile file", func(t *testing.T) {
		assert := require.New(t)

		dir, err := ioutil.TempDir("", "band")
		assert.NoError(err)
		defer os.RemoveAll(dir)

		p := region.KR920()
		p.Name = "KR920-CUSTOM"
		p.ADRAckLimit = 32
		b, err := yaml.Marshal(p)
		assert.NoError(err)

		path := filepath.Join(dir, "profile.yml")
		assert.NoError(ioutil.WriteFile(path, b, 0644))

		var c config.Config
		c.Region.Name = "KR920"
		c.Region.ProfileFile = path

		assert.NoError(Setup(c))
		assert.Equal("KR920-CUSTOM", Profile().Name)
		assert.Equal(uint32(32), Profile().ADRAckLimit)
	})
}
