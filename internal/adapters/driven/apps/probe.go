// Package apps detects and launches native meeting applications.
package apps

import (
	"os"
	"runtime"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// knownPaths lists the default install location per platform and GOOS.
// Windows paths expand %USERNAME% and other environment references.
var knownPaths = map[domain.Platform]map[string]string{
	domain.PlatformZoom: {
		"windows": `C:\Users\%USERNAME%\AppData\Roaming\Zoom\bin\Zoom.exe`,
		"darwin":  "/Applications/zoom.us.app",
		"linux":   "/usr/bin/zoom",
	},
	domain.PlatformTeams: {
		"windows": `C:\Users\%USERNAME%\AppData\Local\Microsoft\Teams\current\Teams.exe`,
		"darwin":  "/Applications/Microsoft Teams.app",
		"linux":   "/usr/bin/teams",
	},
}

// Ensure Probe implements the interface.
var _ driven.AppProbe = (*Probe)(nil)

// Probe checks the default install locations on this machine.
type Probe struct {
	goos      string
	overrides map[domain.Platform]string
	stat      func(string) (os.FileInfo, error)
	expand    func(string) string
}

// NewProbe creates a probe for the running OS. Overrides replace the
// default path for a platform.
func NewProbe(overrides map[domain.Platform]string) *Probe {
	return &Probe{
		goos:      runtime.GOOS,
		overrides: overrides,
		stat:      os.Stat,
		expand:    expandWindowsEnv,
	}
}

// AppPath returns where the platform's app should be, or "" if the
// platform has no native app on this OS.
func (p *Probe) AppPath(platform domain.Platform) string {
	if path, ok := p.overrides[platform]; ok && path != "" {
		return path
	}
	path := knownPaths[platform][p.goos]
	if path == "" {
		return ""
	}
	if p.goos == "windows" {
		path = p.expand(path)
	}
	return path
}

// IsInstalled reports whether the app exists at AppPath.
func (p *Probe) IsInstalled(platform domain.Platform) bool {
	if !platform.HasNativeApp() {
		return false
	}
	path := p.AppPath(platform)
	if path == "" {
		return false
	}
	_, err := p.stat(path)
	return err == nil
}

// expandWindowsEnv replaces %NAME% references with environment values.
// Unknown names are left as written.
func expandWindowsEnv(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			out = append(out, s[i])
			continue
		}
		end := i + 1
		for end < len(s) && s[end] != '%' {
			end++
		}
		if end == len(s) {
			out = append(out, s[i:]...)
			break
		}
		name := s[i+1 : end]
		if v, ok := os.LookupEnv(name); ok && name != "" {
			out = append(out, v...)
		} else {
			out = append(out, s[i:end+1]...)
		}
		i = end
	}
	return string(out)
}
