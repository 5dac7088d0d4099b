// Package band sets up the region profile and region state from the
// configuration.
package band

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/config"
	"github.com/brocaar/chirpstack-region/internal/region"
)

var (
	profile       region.Profile
	extraChannels []region.Channel
	repeater      bool
)

// Setup sets up the region profile with the given configuration. When a
// profile file is configured, it takes precedence over the region name.
func Setup(c config.Config) error {
	var p region.Profile
	var err error

	if c.Region.ProfileFile != "" {
		p, err = loadProfileFile(c.Region.ProfileFile)
		if err != nil {
			return errors.Wrap(err, "load profile file error")
		}
	} else {
		p, err = region.GetProfile(c.Region.Name)
		if err != nil {
			return errors.Wrap(err, "get region profile error")
		}
	}

	p.DutyCycleEnabled = p.DutyCycleEnabled || c.Region.DutyCycle

	extraChannels = nil
	for _, ec := range c.Region.ExtraChannels {
		extraChannels = append(extraChannels, region.Channel{
			Frequency: ec.Frequency,
			DRRange: region.DRRange{
				Min: ec.MinDR,
				Max: ec.MaxDR,
			},
		})
	}

	profile = p
	repeater = c.Region.RepeaterCompatible

	log.WithFields(log.Fields{
		"region":         p.Name,
		"duty_cycle":     p.DutyCycleEnabled,
		"extra_channels": len(extraChannels),
	}).Info("band: region profile configured")

	return nil
}

// Profile returns the configured region profile.
func Profile() region.Profile {
	return profile
}

// RepeaterCompatible returns true when the max. payload sizes of a
// repeater compatible network must be used.
func RepeaterCompatible() bool {
	return repeater
}

// NewState creates a region state for the configured profile and adds the
// configured extra channels to the first free channel slots.
func NewState(r region.Radio, t region.Timer, opts ...region.Option) (*region.State, error) {
	s, err := region.New(profile, r, t, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "new region state error")
	}

	for _, c := range extraChannels {
		id := freeChannel(s)
		if id == -1 {
			return nil, errors.New("no free channel slot for extra channel")
		}

		if err := s.AddChannel(id, c); err != nil {
			return nil, errors.Wrapf(err, "add channel %d error", c.Frequency)
		}

		log.WithFields(log.Fields{
			"channel":   id,
			"frequency": c.Frequency,
			"min_dr":    c.DRRange.Min,
			"max_dr":    c.DRRange.Max,
		}).Debug("band: extra channel added")
	}

	return s, nil
}

func freeChannel(s *region.State) int {
	for i, c := range s.Channels() {
		if c.Frequency == 0 {
			return i
		}
	}
	return -1
}

func loadProfileFile(path string) (region.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return region.Profile{}, errors.Wrap(err, "open file error")
	}
	defer f.Close()

	return region.LoadProfile(f)
}
