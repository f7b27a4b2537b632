// Package geocode resolves street addresses to coordinates using the BC
// Address Geocoder (primary) and OSM Nominatim (fallback).
package geocode

import (
	"context"

	"go.uber.org/zap"
)

// Provider source identifiers, echoed in response attribution.
const (
	SourceBC        = "bc_geocoder"
	SourceNominatim = "nominatim"
)

// Result holds the geocoding output for an address.
type Result struct {
	Lat     float64
	Lon     float64
	Address string  // normalized address text from the provider
	Score   float64 // provider confidence, 0 when the provider has none
	Source  string  // SourceBC or SourceNominatim
}

// Provider represents a single geocoding backend.
type Provider interface {
	Name() string

	// Geocode resolves a single address. A nil Result with a nil error
	// means the provider answered but found no match.
	Geocode(ctx context.Context, address string) (*Result, error)

	Available() bool
}

// Resolver resolves an address through one or more providers.
type Resolver interface {
	// Resolve returns the first successful provider result, or nil when
	// every provider failed or found no match. It never returns an error:
	// provider failures are recovered by falling through to the next one.
	Resolve(ctx context.Context, address string) *Result
}

// Cascade tries providers in order until one succeeds.
type Cascade struct {
	providers []Provider
}

// NewCascade creates a Cascade that tries providers in the given order.
func NewCascade(providers ...Provider) *Cascade {
	return &Cascade{providers: providers}
}

var _ Resolver = (*Cascade)(nil)

// Resolve implements Resolver. Errors from one provider never prevent the
// next from being tried.
func (c *Cascade) Resolve(ctx context.Context, address string) *Result {
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		result, err := p.Geocode(ctx, address)
		if err != nil {
			zap.L().Debug("geocode: provider error, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		if result != nil {
			return result
		}
		zap.L().Debug("geocode: provider returned no match",
			zap.String("provider", p.Name()),
		)
	}
	return nil
}
