package domain

import (
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// Platform is the flag set that decides target suffixes and path separators.
type Platform struct {
	Name                string
	ExecutableSuffix    string
	StaticLibrarySuffix string
	SharedLibrarySuffix string
	Separator           byte
	// SupportsInstall reports whether install and uninstall are offered.
	SupportsInstall bool
}

var (
	// PlatformPOSIX is the flag set for Unix-like hosts.
	PlatformPOSIX = Platform{
		Name:                "posix",
		ExecutableSuffix:    "",
		StaticLibrarySuffix: ".a",
		SharedLibrarySuffix: ".so",
		Separator:           '/',
		SupportsInstall:     true,
	}

	// PlatformWindows is the flag set for Windows hosts.
	PlatformWindows = Platform{
		Name:                "windows",
		ExecutableSuffix:    ".exe",
		StaticLibrarySuffix: ".lib",
		SharedLibrarySuffix: ".dll",
		Separator:           '\\',
		SupportsInstall:     false,
	}
)

// HostPlatform returns the flag set matching the running operating system.
func HostPlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformPOSIX
}

// ParsePlatform resolves a platform name. An empty name selects the host.
func ParsePlatform(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return HostPlatform(), nil
	case PlatformPOSIX.Name, "linux", "darwin", "unix":
		return PlatformPOSIX, nil
	case PlatformWindows.Name:
		return PlatformWindows, nil
	default:
		return Platform{}, zerr.With(zerr.Wrap(ErrInvalidPlatform, "unknown platform"), "platform", name)
	}
}

// Suffix returns the target file suffix for kind.
func (p Platform) Suffix(kind ProjectKind) string {
	switch kind {
	case StaticLibrary:
		return p.StaticLibrarySuffix
	case SharedLibrary:
		return p.SharedLibrarySuffix
	default:
		return p.ExecutableSuffix
	}
}

// Join concatenates path elements with the platform separator.
// Trailing separators on each element are dropped so the result never doubles them.
func (p Platform) Join(elem ...string) string {
	var b strings.Builder
	rooted := false
	for _, e := range elem {
		trimmed := strings.TrimRight(e, "/"+string(p.Separator))
		if trimmed == "" {
			if e != "" && b.Len() == 0 {
				b.WriteByte(p.Separator)
				rooted = true
			}
			continue
		}
		if b.Len() > 0 && !rooted {
			b.WriteByte(p.Separator)
		}
		rooted = false
		b.WriteString(trimmed)
	}
	return b.String()
}
