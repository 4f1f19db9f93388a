package protover

import (
	"fmt"
	"regexp"
	"strconv"
)

// Version represents an Electrum protocol version. Servers advertise these
// as two- or three-component dotted strings, e.g. "1.4" or "1.4.2".
type Version struct {
	Major int
	Minor int
	Patch int
}

var protoRegex = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?$`)

// Parse parses a protocol version string
func Parse(version string) (Version, error) {
	matches := protoRegex.FindStringSubmatch(version)
	if matches == nil {
		return Version{}, fmt.Errorf("invalid protocol version: %s", version)
	}

	major, _ := strconv.Atoi(matches[1])
	minor, _ := strconv.Atoi(matches[2])
	patch := 0
	if matches[3] != "" {
		patch, _ = strconv.Atoi(matches[3])
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// String returns the string representation of the version. The patch
// component is omitted when zero, matching how servers advertise versions.
func (v Version) String() string {
	if v.Patch == 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare compares two versions
// Returns -1 if v < other, 0 if v == other, 1 if v > other
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// AtLeast returns true if v >= other
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}
