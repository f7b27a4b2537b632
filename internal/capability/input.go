package capability

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Coordinate is a geographic point in the canonical reference (EPSG:4326).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks the coordinate is within geographic range.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("lat %v out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("lon %v out of range [-180, 180]", c.Lon)
	}
	return nil
}

// Input is one parsed lookup request.
type Input struct {
	Address    string
	Coord      *Coordinate // nil when only an address was supplied
	Debug      bool
	IncludeRaw bool
	Select     []string
}

// ParseInput parses the inbound query parameters. It requires at least one
// of address or an explicit lat/lon pair; lat and lon must be supplied
// together, parse as floats, and be in range.
func ParseInput(q url.Values) (*Input, *APIError) {
	in := &Input{
		Address:    q.Get("address"),
		Debug:      q.Get("debug") == "1",
		IncludeRaw: q.Get("includeRaw") == "1",
	}

	for _, s := range strings.Split(q.Get("select"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			in.Select = append(in.Select, s)
		}
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr != "" || lonStr != "" {
		if latStr == "" || lonStr == "" {
			return nil, newAPIError(CodeBadRequest, "lat and lon must be supplied together")
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, newAPIError(CodeBadRequest, fmt.Sprintf("invalid lat %q", latStr))
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, newAPIError(CodeBadRequest, fmt.Sprintf("invalid lon %q", lonStr))
		}
		coord := Coordinate{Lat: lat, Lon: lon}
		if err := coord.Validate(); err != nil {
			return nil, newAPIError(CodeBadRequest, err.Error())
		}
		in.Coord = &coord
	}

	if in.Address == "" && in.Coord == nil {
		return nil, newAPIError(CodeBadRequest, "Provide ?address=... or ?lat=..&lon=..")
	}

	return in, nil
}
