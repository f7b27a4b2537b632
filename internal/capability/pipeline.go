package capability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/civicgrid/landuse-api/internal/observability"
	"github.com/civicgrid/landuse-api/pkg/arcgis"
	"github.com/civicgrid/landuse-api/pkg/geocode"
)

// SpatialQuerier runs point-in-polygon queries against a feature service.
type SpatialQuerier interface {
	Query(ctx context.Context, in arcgis.QueryInput) (*arcgis.QueryResult, error)
}

// noMatchNote is set in meta when no polygon covers the point.
const noMatchNote = "No polygon match or fields may need mapping."

// geocoderAttributions maps a geocode source to its attribution entry.
var geocoderAttributions = map[string]Attribution{
	geocode.SourceBC:        {Name: "BC Address Geocoder", URL: "https://geocoder.api.gov.bc.ca/"},
	geocode.SourceNominatim: {Name: "OSM Nominatim", URL: "https://nominatim.openstreetmap.org/"},
}

// Pipeline runs one lookup per request. It holds only read-only
// dependencies, so a single Pipeline is shared across concurrent requests.
type Pipeline struct {
	resolver geocode.Resolver
	spatial  SpatialQuerier
	metrics  *observability.Metrics
}

// NewPipeline creates a Pipeline with its collaborators injected.
func NewPipeline(resolver geocode.Resolver, spatial SpatialQuerier, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{resolver: resolver, spatial: spatial, metrics: metrics}
}

// Lookup answers one request for the given capability. A nil APIError means
// payload is a complete success envelope; otherwise the caller wraps the
// APIError in an error envelope.
func (p *Pipeline) Lookup(ctx context.Context, c Capability, in *Input) (*Payload, *APIError) {
	// Resolve the point, geocoding only when no explicit coordinate came in.
	point := in.Coord
	var geocoderSource string
	if point == nil {
		if in.Address == "" {
			return nil, newAPIError(CodeBadRequest, "Provide ?address=... or ?lat=..&lon=..")
		}
		start := time.Now()
		g := p.resolver.Resolve(ctx, in.Address)
		p.metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
		if g == nil {
			return nil, newAPIError(CodeGeocodeFail, "Could not geocode address")
		}
		point = &Coordinate{Lat: g.Lat, Lon: g.Lon}
		geocoderSource = g.Source
	}

	active := c.Registry.SelectActive()
	if active == nil {
		return nil, newAPIError(CodeAdapterMissing, fmt.Sprintf("No active %s adapter", c.Name))
	}

	start := time.Now()
	qr, err := p.spatial.Query(ctx, arcgis.QueryInput{
		ServiceBase: active.ServiceBase,
		LayerID:     active.LayerID,
		Point:       orb.Point{point.Lon, point.Lat},
		OutFields:   active.OutFields,
		SRID:        active.SRID,
	})
	p.metrics.SpatialDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		zap.L().Error("spatial query failed",
			zap.String("capability", c.Name),
			zap.String("adapter", active.Name),
			zap.Error(err),
		)
		return nil, spatialAPIError(err)
	}

	mapped := Normalize(qr.Attributes, active.FieldMap)

	source := fmt.Sprintf("%s/%d", active.ServiceBase, active.LayerID)
	data := map[string]any{"parcelCentroid": *point}
	if mapped != nil {
		for k, v := range mapped {
			data[k] = v
		}
	} else {
		for _, k := range c.DefaultKeys {
			data[k] = nil
		}
	}
	data["source"] = source

	// ?select= trims data to the chosen keys; parcelCentroid and source
	// stay for context.
	if len(in.Select) > 0 {
		trimmed := map[string]any{
			"parcelCentroid": data["parcelCentroid"],
			"source":         source,
		}
		for _, k := range in.Select {
			if v, ok := data[k]; ok {
				trimmed[k] = v
			}
		}
		data = trimmed
	}

	var attribution []Attribution
	if attr, ok := geocoderAttributions[geocoderSource]; ok {
		attribution = append(attribution, attr)
	}
	attribution = append(attribution, Attribution{Name: c.SourceName, URL: active.ServiceBase})

	meta := &Meta{Version: c.Version}
	if mapped == nil {
		meta.Note = noMatchNote
	}
	if in.Debug {
		meta.Debug = map[string]any{"attributes": qr.Attributes}
		if in.IncludeRaw {
			meta.Debug["raw"] = qr.Raw
		}
	}

	return &Payload{
		OK:          true,
		Capability:  c.Name,
		Input:       &InputEcho{Address: in.Address, Lat: point.Lat, Lon: point.Lon},
		Data:        data,
		Attribution: attribution,
		Meta:        meta,
	}, nil
}

// spatialAPIError translates a feature-service failure into the error
// taxonomy: structured remote errors are UPSTREAM_ERROR, everything else
// (transport, non-success status) is UPSTREAM_UNAVAILABLE.
func spatialAPIError(err error) *APIError {
	var svcErr *arcgis.ServiceError
	if errors.As(err, &svcErr) {
		return newAPIError(CodeUpstreamError, fmt.Sprintf("spatial service error %d: %s", svcErr.Code, svcErr.Message))
	}
	var statusErr *arcgis.StatusError
	if errors.As(err, &statusErr) {
		return newAPIError(CodeUpstreamUnavailable, fmt.Sprintf("spatial service returned status %d", statusErr.StatusCode))
	}
	return newAPIError(CodeUpstreamUnavailable, "spatial service unreachable")
}
