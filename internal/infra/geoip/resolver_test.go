package geoip

import (
	"errors"
	"testing"
)

func TestOpenEmptyPathDisablesResolver(t *testing.T) {
	r, err := Open("  ")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil resolver, got %#v", r)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close on nil resolver: %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open(t.TempDir() + "/missing.mmdb"); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestNilResolverIsUnavailable(t *testing.T) {
	var r *Resolver
	if _, err := r.CountryCode("203.0.113.7"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
