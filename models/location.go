package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPermissionDenied    = errors.New("location access denied")
	ErrLocationUnavailable = errors.New("location unavailable")
)

// Coordinates is a position reported by a geolocation provider.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String formats the position the way it is stored in Issue.Location.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

// Locator is a geolocation provider.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// StaticLocator returns the coordinates a client already captured, or
// ErrLocationUnavailable when it sent none.
type StaticLocator struct {
	Coords *Coordinates
}

func (l StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	if l.Coords == nil {
		return Coordinates{}, ErrLocationUnavailable
	}
	return *l.Coords, nil
}

// ResolveLocation prefers manually entered text and falls back to the locator.
func ResolveLocation(ctx context.Context, manual string, locator Locator) (string, error) {
	if m := strings.TrimSpace(manual); m != "" {
		return m, nil
	}
	if locator == nil {
		return "", ErrLocationUnavailable
	}
	coords, err := locator.Locate(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", LocationPrompt(err), err)
	}
	return coords.String(), nil
}

// LocationPrompt is the user-facing hint for a geolocation failure.
func LocationPrompt(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Please enter your location manually or enable location services."
	default:
		return "Please enter your location manually."
	}
}
