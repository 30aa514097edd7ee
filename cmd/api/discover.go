package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func discoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Announce every discoverable entity once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cfg.MQTT.HADiscoveryEnable {
				return errors.New("discovery is disabled, set mqtt.ha_discovery_enable")
			}
			b, err := newBridge(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()
			return b.services.Announce(cmd.Context())
		},
	}
}
