package main

import (
	"encoding/json"

	"github.com/gsbenevides2/hassbridge/internal/adapter/hub"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/spf13/cobra"
)

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <entity_id>",
		Short: "Print the hub state of one entity as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseEntityID(args[0])
			if err != nil {
				return err
			}
			raw, err := hub.NewClient(cfg.Hub, logger).Read(cmd.Context(), id.EntityID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(raw)
		},
	}
}
