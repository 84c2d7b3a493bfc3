package oncotree

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrVersionUnknown is returned when a version identifier is absent from the
// fetched catalog snapshot.
var ErrVersionUnknown = errors.New("version not known to the endpoint")

// VersionCatalog is an immutable snapshot of an endpoint's version listing,
// ordered by release date descending. It is fetched once per invocation and
// passed explicitly to everything that resolves version metadata afterwards,
// so that every lookup is answered from the same snapshot.
type VersionCatalog struct {
	versions []Version
}

// NewVersionCatalog builds a snapshot from already-fetched version entries.
func NewVersionCatalog(versions []Version) *VersionCatalog {
	sorted := slices.Clone(versions)
	slices.SortStableFunc(sorted, func(a, b Version) int {
		return strings.Compare(b.ReleaseDate, a.ReleaseDate)
	})
	return &VersionCatalog{versions: sorted}
}

// FetchCatalog fetches the version listing from the endpoint and returns it
// as a snapshot.
func FetchCatalog(client *Client) (*VersionCatalog, error) {
	versions, err := client.Versions()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch version catalog: %w", err)
	}
	return NewVersionCatalog(versions), nil
}

// Versions returns every catalog entry, newest release first.
func (vc *VersionCatalog) Versions() []Version {
	return vc.versions
}

// Visible returns the entries the endpoint marks as visible, newest first.
func (vc *VersionCatalog) Visible() []Version {
	return vc.filter(true)
}

// Invisible returns the entries the endpoint hides, newest first.
func (vc *VersionCatalog) Invisible() []Version {
	return vc.filter(false)
}

func (vc *VersionCatalog) filter(visible bool) []Version {
	var out []Version
	for _, v := range vc.versions {
		if v.Visible == visible {
			out = append(out, v)
		}
	}
	return out
}

// DateOf returns the release date of a version identifier.
func (vc *VersionCatalog) DateOf(versionID string) (string, error) {
	for _, v := range vc.versions {
		if v.APIIdentifier == versionID {
			return v.ReleaseDate, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrVersionUnknown, versionID)
}

// IsKnown reports whether the snapshot contains the version identifier.
func (vc *VersionCatalog) IsKnown(versionID string) bool {
	_, err := vc.DateOf(versionID)
	return err == nil
}
