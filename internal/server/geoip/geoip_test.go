package geoip

import (
	"errors"
	"net/netip"
	"testing"
)

func TestOpenEmptyPathDisablesResolution(t *testing.T) {
	r, err := Open("")
	if err != nil {
		t.Fatalf("Open with an empty path should not fail, got %v", err)
	}
	if r.Enabled() {
		t.Error("Expected an unset path to disable resolution")
	}

	if _, err := r.Lookup(netip.MustParseAddr("8.8.8.8")); !errors.Is(err, ErrDisabled) {
		t.Errorf("Expected ErrDisabled from a disabled resolver, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Closing a disabled resolver should be a no-op, got %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open("/nonexistent/GeoLite2-City.mmdb"); err == nil {
		t.Error("Expected an error for a missing database file")
	}
}
