package geocode

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider scripts one provider's behavior for cascade tests.
type fakeProvider struct {
	name      string
	result    *Result
	err       error
	available bool
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Geocode(_ context.Context, _ string) (*Result, error) {
	f.calls++
	return f.result, f.err
}

func TestCascade_PrimaryWins(t *testing.T) {
	primary := &fakeProvider{name: "primary", available: true, result: &Result{Lat: 49.16, Lon: -123.94, Source: SourceBC}}
	fallback := &fakeProvider{name: "fallback", available: true, result: &Result{Lat: 1, Lon: 1, Source: SourceNominatim}}

	got := NewCascade(primary, fallback).Resolve(context.Background(), "123 Main St")
	require.NotNil(t, got)
	assert.Equal(t, SourceBC, got.Source)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls, "fallback must not be called when primary succeeds")
}

func TestCascade_FallbackOnPrimaryError(t *testing.T) {
	primary := &fakeProvider{name: "primary", available: true, err: eris.New("boom")}
	fallback := &fakeProvider{name: "fallback", available: true, result: &Result{Lat: 49.16, Lon: -123.94, Source: SourceNominatim}}

	got := NewCascade(primary, fallback).Resolve(context.Background(), "123 Main St")
	require.NotNil(t, got)
	assert.Equal(t, SourceNominatim, got.Source)
	assert.InDelta(t, 49.16, got.Lat, 0.0001)
}

func TestCascade_FallbackOnPrimaryMiss(t *testing.T) {
	primary := &fakeProvider{name: "primary", available: true}
	fallback := &fakeProvider{name: "fallback", available: true, result: &Result{Lat: 49.16, Lon: -123.94, Source: SourceNominatim}}

	got := NewCascade(primary, fallback).Resolve(context.Background(), "123 Main St")
	require.NotNil(t, got)
	assert.Equal(t, SourceNominatim, got.Source)
}

func TestCascade_AllFail(t *testing.T) {
	primary := &fakeProvider{name: "primary", available: true, err: eris.New("down")}
	fallback := &fakeProvider{name: "fallback", available: true, err: eris.New("also down")}

	got := NewCascade(primary, fallback).Resolve(context.Background(), "??invalid??")
	assert.Nil(t, got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestCascade_SkipsUnavailable(t *testing.T) {
	unavailable := &fakeProvider{name: "unavailable", result: &Result{Lat: 1}}
	available := &fakeProvider{name: "available", available: true, result: &Result{Lat: 49.16, Source: SourceBC}}

	got := NewCascade(unavailable, available).Resolve(context.Background(), "123 Main St")
	require.NotNil(t, got)
	assert.Zero(t, unavailable.calls)
	assert.Equal(t, SourceBC, got.Source)
}

func TestCascade_Empty(t *testing.T) {
	assert.Nil(t, NewCascade().Resolve(context.Background(), "anything"))
}
