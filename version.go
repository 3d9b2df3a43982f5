package tabular

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/simonhull/tabular/internal/registry"
)

// Version is the semantic version of the tabular library.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// decodingModules are the libraries whose versions decide how files decode.
var decodingModules = []string{
	"github.com/parquet-go/parquet-go",
	"github.com/tidwall/gjson",
	"golang.org/x/text",
}

// VersionInfo describes a build of the library: its version, where it was
// built from, and what it can decode.
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string

	// Formats lists the registered formats in ascending order.
	Formats []Format

	// Libraries maps each decoding library's module path to the version
	// linked into this build. Libraries missing from the build info are
	// omitted.
	Libraries map[string]string
}

// GetVersionInfo returns version information for the running build.
//
// GitCommit and BuildTime come from -ldflags when set:
//
//	go build -ldflags="-X github.com/simonhull/tabular.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/tabular.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	  ./cmd/tabdump
//
// Otherwise they fall back to the VCS stamp the go command embeds, then to
// "unknown".
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
		Formats:   registry.Formats(),
		Libraries: make(map[string]string),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.GitCommit == "unknown":
			info.GitCommit = s.Value
		case s.Key == "vcs.time" && info.BuildTime == "unknown":
			info.BuildTime = s.Value
		}
	}
	for _, dep := range bi.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}
		if slices.Contains(decodingModules, dep.Path) {
			info.Libraries[dep.Path] = dep.Version
		}
	}
	return info
}

// String renders the information as the multi-line text printed by
// tabdump --version.
func (v VersionInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tabular %s (commit %s, built %s, %s)\n", v.Version, v.GitCommit, v.BuildTime, v.GoVersion)

	formats := make([]string, len(v.Formats))
	for i, f := range v.Formats {
		formats[i] = fmt.Sprintf("%s (%s)", f, strings.Join(f.Extensions(), ", "))
	}
	fmt.Fprintf(&b, "formats: %s\n", strings.Join(formats, ", "))

	for _, path := range decodingModules {
		if version, ok := v.Libraries[path]; ok {
			fmt.Fprintf(&b, "%s %s\n", path, version)
		}
	}
	return b.String()
}

// Variables populated at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)
