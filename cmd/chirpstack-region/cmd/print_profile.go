package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brocaar/chirpstack-region/internal/band"
	"github.com/brocaar/chirpstack-region/internal/config"
	"github.com/brocaar/chirpstack-region/internal/storage"
)

var printProfileCmd = &cobra.Command{
	Use:     "print-profile",
	Short:   "Print the configured region profile as YAML",
	Example: `chirpstack-region print-profile > kr920.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := band.Setup(config.C); err != nil {
			log.Fatal(err)
		}

		b, err := yaml.Marshal(band.Profile())
		if err != nil {
			log.WithError(err).Fatal("yaml marshal error")
		}

		fmt.Print(string(b))
	},
}

var printStateCmd = &cobra.Command{
	Use:     "print-state",
	Short:   "Print the stored region-state as JSON (for debugging)",
	Example: `chirpstack-region print-state 0102030405060708`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Fatalf("device id must be given as an argument")
		}

		if err := storage.Setup(config.C); err != nil {
			log.Fatal(err)
		}

		snap, err := storage.GetRegionState(context.Background(), args[0])
		if err != nil {
			log.WithError(err).Fatal("get region-state error")
		}

		b, err := json.MarshalIndent(snap, "", "    ")
		if err != nil {
			log.WithError(err).Fatal("json marshal error")
		}

		fmt.Println(string(b))
	},
}
