package common

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is set via ldflags at build time: -ldflags "-X github.com/Alia5/cpp2d/internal/codegen/common.Version=x.y.z"
var Version = ""

const devVersion = "0.0.1-dev"

// GetVersion returns the version written into generated file banners. The
// ldflags value wins; `go install module@version` builds fall back to the
// module version. Everything else is a development build.
func GetVersion() (string, error) {
	v := Version
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if v == "" {
		return devVersion, nil
	}

	version := strings.TrimPrefix(v, "v")
	baseVersion := strings.SplitN(version, "-", 2)[0]
	if !strings.Contains(baseVersion, ".") {
		return "", fmt.Errorf("invalid version format: %s (expected x.y.z)", v)
	}

	return version, nil
}
