package parser

import (
	"strconv"
	"strings"
)

// OASVersion represents each canonical version of the OpenAPI Specification
// listed at: https://github.com/OAI/OpenAPI-Specification/releases
type OASVersion int

const (
	// Unknown represents an unknown or invalid OAS version
	Unknown OASVersion = iota
	// OASVersion20 OpenAPI Specification Version 2.0 (Swagger)
	OASVersion20
	// OASVersion300 OpenAPI Specification Version 3.0.0
	OASVersion300
	// OASVersion301 OpenAPI Specification Version 3.0.1
	OASVersion301
	// OASVersion302 OpenAPI Specification Version 3.0.2
	OASVersion302
	// OASVersion303 OpenAPI Specification Version 3.0.3
	OASVersion303
	// OASVersion304 OpenAPI Specification Version 3.0.4
	OASVersion304
	// OASVersion310 OpenAPI Specification Version 3.1.0
	OASVersion310
	// OASVersion311 OpenAPI Specification Version 3.1.1
	OASVersion311
	// OASVersion312 OpenAPI Specification Version 3.1.2
	OASVersion312
	// OASVersion320 OpenAPI Specification Version 3.2.0
	OASVersion320
)

var (
	versionToString = map[OASVersion]string{
		OASVersion20:  "2.0",
		OASVersion300: "3.0.0",
		OASVersion301: "3.0.1",
		OASVersion302: "3.0.2",
		OASVersion303: "3.0.3",
		OASVersion304: "3.0.4",
		OASVersion310: "3.1.0",
		OASVersion311: "3.1.1",
		OASVersion312: "3.1.2",
		OASVersion320: "3.2.0",
	}

	stringToVersion = func() map[string]OASVersion {
		m := make(map[string]OASVersion, len(versionToString))
		for k, v := range versionToString {
			m[v] = k
		}
		return m
	}()

	// seriesMaxPatch maps a "major.minor" series to its highest known patch
	// version, so future patch releases map to the closest supported version.
	seriesMaxPatch = map[string]struct {
		patch   int
		version OASVersion
	}{
		"3.0": {4, OASVersion304},
		"3.1": {2, OASVersion312},
		"3.2": {0, OASVersion320},
	}
)

func (v OASVersion) String() string {
	if s, ok := versionToString[v]; ok {
		return s
	}
	return "unknown"
}

// IsValid returns true if this is a known OAS version.
func (v OASVersion) IsValid() bool {
	_, ok := versionToString[v]
	return ok
}

// IsOAS2 returns true for the 2.0 (Swagger) version.
func (v OASVersion) IsOAS2() bool {
	return v == OASVersion20
}

// IsOAS3 returns true for any 3.x version.
func (v OASVersion) IsOAS3() bool {
	return v.IsValid() && v != OASVersion20
}

// ParseVersion attempts to parse the string s into an OASVersion, returning
// false if s does not name a supported version. This function supports:
//  1. Exact version matches (e.g., "2.0", "3.0.3")
//  2. Future patch versions in known major.minor series (e.g., "3.0.9"
//     maps to "3.0.4")
//  3. Pre-release versions (e.g., "3.1.0-rc1" maps to "3.1.0")
func ParseVersion(s string) (OASVersion, bool) {
	// Exact match handles all known versions including "2.0"
	if v, ok := stringToVersion[s]; ok {
		return v, true
	}

	major, minor, patch, ok := splitVersion(s)
	if !ok {
		return Unknown, false
	}

	// Only 2.0 is supported in the 2.x line
	if major == 2 {
		if minor == 0 {
			return OASVersion20, true
		}
		return Unknown, false
	}

	if major != 3 {
		return Unknown, false
	}

	series, ok := seriesMaxPatch[strconv.Itoa(major)+"."+strconv.Itoa(minor)]
	if !ok {
		return Unknown, false
	}

	// Walk down from the requested patch to the closest known version
	for p := min(patch, series.patch); p >= 0; p-- {
		if v, ok := stringToVersion[versionKey(major, minor, p)]; ok {
			return v, true
		}
	}
	return Unknown, false
}

func versionKey(major, minor, patch int) string {
	return strconv.Itoa(major) + "." + strconv.Itoa(minor) + "." + strconv.Itoa(patch)
}

// splitVersion parses "major.minor[.patch][-prerelease]" into numeric parts.
// The pre-release suffix is stripped; a missing patch segment defaults to 0.
func splitVersion(s string) (major, minor, patch int, ok bool) {
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, 0, 0, false
		}
		nums[i] = n
	}
	major, minor = nums[0], nums[1]
	if len(nums) == 3 {
		patch = nums[2]
	}
	return major, minor, patch, true
}
