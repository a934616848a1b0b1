package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goom-server/internal/server"
	"goom-server/internal/worldcfg"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <world-file>",
		Short: "Check a world configuration and bind it without serving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := worldcfg.Load(args[0])
			if err != nil {
				return err
			}
			srv, err := server.New(cfg, nil, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d bodies, %d agents, %d planes)\n",
				args[0], len(srv.Physics().Bodies()), len(srv.Behavior().Agents()), len(srv.Physics().Planes()))
			return nil
		},
	}
}
