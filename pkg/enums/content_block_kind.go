package enums

import "fmt"

// ContentBlockKind classifies a marketing content block.
type ContentBlockKind string

const (
	ContentBlockKindHero   ContentBlockKind = "hero"
	ContentBlockKindBanner ContentBlockKind = "banner"
	ContentBlockKindFAQ    ContentBlockKind = "faq"
	ContentBlockKindPage   ContentBlockKind = "page"
)

var validContentBlockKinds = []ContentBlockKind{
	ContentBlockKindHero,
	ContentBlockKindBanner,
	ContentBlockKindFAQ,
	ContentBlockKindPage,
}

// String implements fmt.Stringer.
func (c ContentBlockKind) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContentBlockKind.
func (c ContentBlockKind) IsValid() bool {
	for _, candidate := range validContentBlockKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContentBlockKind converts raw input into a ContentBlockKind.
func ParseContentBlockKind(value string) (ContentBlockKind, error) {
	for _, candidate := range validContentBlockKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content block kind %q", value)
}
