package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/fahim-ahmed05/dotmngr/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/fahim-ahmed05/dotmngr/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/fahim-ahmed05/dotmngr/internal/version.Date={{.Date}}
)
