// Package geoip resolves addresses to coarse locations using a local
// MaxMind City database.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/oschwald/geoip2-golang"
)

var (
	// ErrDisabled is returned by Lookup when no database is loaded.
	ErrDisabled = errors.New("geoip: no database loaded")
	// ErrNotFound is returned when the database has no entry for an
	// address. Private ranges always land here.
	ErrNotFound = errors.New("geoip: address not in database")
)

// Location is the slice of a City record the dashboard plots.
type Location struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Resolver answers point lookups against a MaxMind database. A nil
// Resolver is valid and reports every lookup as disabled, so callers can
// thread it through unconditionally.
type Resolver struct {
	db *geoip2.Reader
}

// Open loads the database at path. An empty path disables resolution and
// returns a nil Resolver.
func Open(path string) (*Resolver, error) {
	if path == "" {
		return nil, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database %s: %w", path, err)
	}
	return &Resolver{db: db}, nil
}

// Enabled reports whether lookups can succeed.
func (r *Resolver) Enabled() bool {
	return r != nil
}

// Lookup resolves addr to a location.
func (r *Resolver) Lookup(addr netip.Addr) (Location, error) {
	if r == nil {
		return Location{}, ErrDisabled
	}
	rec, err := r.db.City(net.IP(addr.AsSlice()))
	if err != nil {
		return Location{}, fmt.Errorf("failed to look up %s: %w", addr, err)
	}
	loc := Location{
		IP:          addr.String(),
		City:        rec.City.Names["en"],
		Country:     rec.Country.Names["en"],
		CountryCode: rec.Country.IsoCode,
		Lat:         rec.Location.Latitude,
		Lon:         rec.Location.Longitude,
	}
	// The reader hands back a zero record instead of an error for
	// addresses it has never heard of.
	if loc.City == "" && loc.Country == "" && loc.Lat == 0 && loc.Lon == 0 {
		return Location{}, ErrNotFound
	}
	return loc, nil
}

func (r *Resolver) Close() error {
	if r == nil {
		return nil
	}
	return r.db.Close()
}
