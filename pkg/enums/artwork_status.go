package enums

import "fmt"

// ArtworkStatus tracks an uploaded artwork file's review lifecycle.
type ArtworkStatus string

const (
	ArtworkStatusPending  ArtworkStatus = "pending"
	ArtworkStatusAttached ArtworkStatus = "attached"
	ArtworkStatusRejected ArtworkStatus = "rejected"
)

var validArtworkStatuses = []ArtworkStatus{
	ArtworkStatusPending,
	ArtworkStatusAttached,
	ArtworkStatusRejected,
}

// String implements fmt.Stringer.
func (a ArtworkStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ArtworkStatus.
func (a ArtworkStatus) IsValid() bool {
	for _, candidate := range validArtworkStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseArtworkStatus converts raw input into an ArtworkStatus.
func ParseArtworkStatus(value string) (ArtworkStatus, error) {
	for _, candidate := range validArtworkStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid artwork status %q", value)
}
