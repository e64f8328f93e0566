package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/Serenacula/templative/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/Serenacula/templative/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/Serenacula/templative/internal/version.Date={{.Date}}
)
