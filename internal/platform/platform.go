package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is the OS family a packaging run targets
type Platform int

const (
	Unknown Platform = iota
	Linux
	Windows
)

// String returns the string representation of Platform
func (p Platform) String() string {
	switch p {
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	default:
		return "unknown"
	}
}

// FromGOOS maps a GOOS value onto a Platform
func FromGOOS(goos string) Platform {
	switch strings.ToLower(goos) {
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// Detect returns the platform of the running host.
// Callers should detect once per run and pass the value along.
func Detect() Platform {
	return FromGOOS(runtime.GOOS)
}

// Parse converts a user-supplied platform name, as accepted by --platform
func Parse(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return Linux, nil
	case "windows":
		return Windows, nil
	case "unknown":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unsupported platform %q", s)
	}
}

// ExecutableName returns base with the platform's executable suffix
func (p Platform) ExecutableName(base string) string {
	if p == Windows && !strings.HasSuffix(strings.ToLower(base), ".exe") {
		return base + ".exe"
	}
	return base
}
