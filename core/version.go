package core

// ServiceName is the human-readable service identifier reported by /health.
const ServiceName = "MemeForge Studio Backend"

// Version is the application version, set at build time via ldflags:
//
//	go build -ldflags "-X github.com/Cronos47/meme-tanker/core.Version=v2.1.0" .
//
// Defaults to "dev" when not injected.
var Version = "dev"

// GitCommit is the git commit hash, set at build time via ldflags.
var GitCommit = "unknown"

// GetVersionInfo returns a formatted version string including the commit
// when available.
func GetVersionInfo() string {
	if GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
