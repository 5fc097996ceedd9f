package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"
)

func newResourceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Create and look up resources",
		Args:  requireSubcommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		newResourceCreateCmd(a),
		newResourceSearchCmd(a),
		newResourceGetCmd(a),
		newResourceListCmd(a),
	)
	return cmd
}

func newResourceCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new resource and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.store.CreateResource(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newResourceSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Print the id of the resource with the given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.store.FindResourceByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newResourceGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the name of the resource with the given id",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), resourceIDArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseResourceID(args[0])
			if err != nil {
				return err
			}
			name, err := a.store.FindResourceByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func newResourceListCmd(a *app) *cobra.Command {
	format := outputTable
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every resource",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := a.store.ListResources(cmd.Context())
			if err != nil {
				return err
			}
			return renderResources(cmd.OutOrStdout(), format, resources)
		},
	}
	cmd.Flags().VarP(&format, "output", "o", "Output format (table, json, yaml)")
	return cmd
}

// resourceIDArg validates the id argument before a connection is opened.
func resourceIDArg(cmd *cobra.Command, args []string) error {
	_, err := parseResourceID(args[0])
	return err
}

func parseResourceID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid resource id %q: expected an unsigned integer up to %d", s, uint32(math.MaxUint32))
	}
	return uint32(id), nil
}
