package main

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/civicgrid/landuse-api/internal/capability"
)

var (
	lookupCapability  string
	lookupLat         float64
	lookupLon         float64
	lookupDebug       bool
	lookupIncludeRaw  bool
	lookupSelect      []string
	lookupConcurrency int
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [address]...",
	Short: "Run lookups from the command line",
	Long:  "Runs the same pipeline the HTTP endpoints use and prints one JSON envelope per line. Pass addresses as arguments, or --lat/--lon for an explicit point.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initApp()
		if err != nil {
			return err
		}

		c := findCapability(a.catalog, lookupCapability)
		if c == nil {
			return eris.Errorf("unknown capability %q", lookupCapability)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())

		if len(args) == 0 {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
				return eris.New("provide an address argument or both --lat and --lon")
			}
			coord := capability.Coordinate{Lat: lookupLat, Lon: lookupLon}
			if err := coord.Validate(); err != nil {
				return eris.Wrap(err, "lookup")
			}
			in := &capability.Input{Coord: &coord, Debug: lookupDebug, IncludeRaw: lookupIncludeRaw, Select: lookupSelect}
			return enc.Encode(runLookup(cmd.Context(), a, *c, in))
		}

		// Addresses fan out concurrently; output stays in argument order.
		payloads := make([]*capability.Payload, len(args))
		eg, gCtx := errgroup.WithContext(cmd.Context())
		eg.SetLimit(lookupConcurrency)

		for i, addr := range args {
			i, addr := i, addr
			eg.Go(func() error {
				in := &capability.Input{Address: addr, Debug: lookupDebug, IncludeRaw: lookupIncludeRaw, Select: lookupSelect}
				payloads[i] = runLookup(gCtx, a, *c, in)
				return nil
			})
		}
		_ = eg.Wait()

		for _, p := range payloads {
			if err := enc.Encode(p); err != nil {
				return eris.Wrap(err, "lookup: encode")
			}
		}
		return nil
	},
}

// runLookup runs one lookup and folds failures into the error envelope so
// a batch of addresses always yields one line per input.
func runLookup(ctx context.Context, a *app, c capability.Capability, in *capability.Input) *capability.Payload {
	payload, apiErr := a.pipeline.Lookup(ctx, c, in)
	if apiErr != nil {
		return &capability.Payload{
			Capability: c.Name,
			Error:      &capability.ErrorBody{Code: apiErr.Code, Message: apiErr.Message},
		}
	}
	return payload
}

func init() {
	lookupCmd.Flags().StringVar(&lookupCapability, "capability", "zoning", "capability to query (zoning, dpa4)")
	lookupCmd.Flags().Float64Var(&lookupLat, "lat", 0, "explicit latitude (requires --lon)")
	lookupCmd.Flags().Float64Var(&lookupLon, "lon", 0, "explicit longitude (requires --lat)")
	lookupCmd.Flags().BoolVar(&lookupDebug, "debug", false, "include raw attributes under meta.debug")
	lookupCmd.Flags().BoolVar(&lookupIncludeRaw, "include-raw", false, "include the full upstream response (with --debug)")
	lookupCmd.Flags().StringSliceVar(&lookupSelect, "select", nil, "trim data to these output keys")
	lookupCmd.Flags().IntVar(&lookupConcurrency, "concurrency", 4, "max parallel lookups for multiple addresses")
	rootCmd.AddCommand(lookupCmd)
}
