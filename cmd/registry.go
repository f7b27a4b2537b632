package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect adapter registries",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the adapters configured per capability",
	RunE: func(cmd *cobra.Command, args []string) error {
		registries, err := loadRegistries(cfg)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(registries))
		for name := range registries {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CAPABILITY\tADAPTER\tACTIVE\tSERVICE\tLAYER")
		for _, name := range names {
			for _, a := range registries[name] {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%d\n", name, a.Name, a.Active, a.ServiceBase, a.LayerID)
			}
		}
		return w.Flush()
	},
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate registry configuration, failing on ambiguous registries",
	RunE: func(cmd *cobra.Command, args []string) error {
		registries, err := loadRegistries(cfg)
		if err != nil {
			return err
		}

		for name, r := range registries {
			if err := r.Validate(); err != nil {
				return err
			}
			if r.SelectActive() == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s has no active adapter\n", name)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d registries ok\n", len(registries))
		return nil
	},
}

func init() {
	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryValidateCmd)
	rootCmd.AddCommand(registryCmd)
}
