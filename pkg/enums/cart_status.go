package enums

import (
	"fmt"
	"strings"
)

// CartStatus tracks the follow-up state of a captured abandoned cart.
type CartStatus string

const (
	CartStatusAbandoned CartStatus = "abandoned"
	CartStatusContacted CartStatus = "contacted"
	CartStatusRecovered CartStatus = "recovered"
	CartStatusLost      CartStatus = "lost"
)

var validCartStatuses = []CartStatus{
	CartStatusAbandoned,
	CartStatusContacted,
	CartStatusRecovered,
	CartStatusLost,
}

// String implements fmt.Stringer.
func (c CartStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartStatus.
func (c CartStatus) IsValid() bool {
	for _, candidate := range validCartStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartStatus converts raw input into a CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validCartStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart status %q", value)
}
