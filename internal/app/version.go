package app

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Build metadata. Link-time values win:
//
//	go build -ldflags "-X github.com/heartmarshall/contracthub-backend/internal/app.Version=1.4.0" ./cmd/server
//
// Commit and BuildTime otherwise fall back to the VCS stamp the Go toolchain
// embeds in the binary.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var stampOnce sync.Once

func stampFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "unknown" && len(s.Value) >= 12 {
				Commit = s.Value[:12]
			}
		case "vcs.time":
			if BuildTime == "unknown" {
				BuildTime = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && Commit != "unknown" {
		Commit += "-dirty"
	}
}

// BuildVersion formats the build metadata for startup logs and /health.
func BuildVersion() string {
	stampOnce.Do(stampFromBuildInfo)
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
