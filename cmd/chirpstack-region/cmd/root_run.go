package cmd

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brocaar/chirpstack-region/internal/adr"
	"github.com/brocaar/chirpstack-region/internal/band"
	"github.com/brocaar/chirpstack-region/internal/config"
	"github.com/brocaar/chirpstack-region/internal/monitoring"
	"github.com/brocaar/chirpstack-region/internal/radio"
	"github.com/brocaar/chirpstack-region/internal/region"
	"github.com/brocaar/chirpstack-region/internal/simulator"
	"github.com/brocaar/chirpstack-region/internal/storage"
	"github.com/brocaar/chirpstack-region/internal/timer"
)

var (
	state *region.State
	clock *timer.Manual
)

func run(cmd *cobra.Command, args []string) error {
	tasks := []func() error{
		setLogLevel,
		setSyslog,
		setupBand,
		printStartMessage,
		setupMonitoring,
		setupStorage,
		setupState,
		setupADR,
		runSimulator,
		saveState,
	}

	for _, t := range tasks {
		if err := t(); err != nil {
			log.Fatal(err)
		}
	}

	// keep serving the monitoring endpoint
	if config.C.Monitoring.Bind == "" {
		return nil
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	log.WithField("signal", <-sigChan).Info("signal received")

	return nil
}

func setLogLevel() error {
	log.SetLevel(log.Level(uint8(config.C.General.LogLevel)))
	return nil
}

func setupBand() error {
	if err := band.Setup(config.C); err != nil {
		return errors.Wrap(err, "setup band error")
	}
	return nil
}

func printStartMessage() error {
	log.WithFields(log.Fields{
		"version":             version,
		"region":              band.Profile().Name,
		"repeater_compatible": band.RepeaterCompatible(),
	}).Info("starting ChirpStack Region")
	return nil
}

func setupMonitoring() error {
	if err := monitoring.Setup(config.C); err != nil {
		return errors.Wrap(err, "setup monitoring error")
	}
	return nil
}

func setupStorage() error {
	if config.C.Redis.URL == "" {
		return nil
	}

	if err := storage.Setup(config.C); err != nil {
		return errors.Wrap(err, "setup storage error")
	}
	return nil
}

// setupState creates the region state. A stored state of the device is
// restored, else the state is cold initialized.
func setupState() error {
	clock = timer.NewManual(time.Now())

	var opts []region.Option
	if config.C.Simulator.Seed != 0 {
		opts = append(opts, region.WithRandSource(rand.NewSource(config.C.Simulator.Seed)))
	}

	var err error
	state, err = band.NewState(radio.NewFromConfig(config.C), clock, opts...)
	if err != nil {
		return errors.Wrap(err, "new region state error")
	}

	if storage.RedisClient() == nil {
		return nil
	}

	snap, err := storage.GetRegionState(context.Background(), config.C.Simulator.DeviceID)
	if err != nil {
		if errors.Cause(err) == storage.ErrDoesNotExist {
			return nil
		}
		return errors.Wrap(err, "get region-state error")
	}

	if err := state.Restore(snap); err != nil {
		log.WithError(err).Warning("restore region-state error, using defaults")
	}

	return nil
}

func setupADR() error {
	if err := adr.Setup(state); err != nil {
		return errors.Wrap(err, "setup adr error")
	}
	return nil
}

func runSimulator() error {
	sim, err := simulator.New(state, clock, adr.GetHandler("default"), config.C)
	if err != nil {
		return errors.Wrap(err, "new simulator error")
	}

	rep, err := sim.Run(context.Background())
	if err != nil {
		return errors.Wrap(err, "run simulator error")
	}

	b, err := yaml.Marshal(rep)
	if err != nil {
		return errors.Wrap(err, "yaml marshal error")
	}
	os.Stdout.Write(b)

	return nil
}

func saveState() error {
	if storage.RedisClient() == nil {
		return nil
	}

	if err := storage.SaveRegionState(context.Background(), config.C.Simulator.DeviceID, state.Snapshot()); err != nil {
		return errors.Wrap(err, "save region-state error")
	}
	return nil
}
