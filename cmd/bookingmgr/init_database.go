package main

import (
	"github.com/ddgos/booking-manager/db"

	"github.com/spf13/cobra"
)

func newInitDatabaseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-database",
		Short: "Create the resource and booking tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return db.InitSchema(cmd.Context(), a.conn, a.log)
		},
	}
}
