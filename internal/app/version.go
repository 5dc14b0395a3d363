package app

// Version is the semantic version of the zond tooling, set at build time via -ldflags.
var Version = "dev"

// Build is the git commit hash or build identifier, set at build time via -ldflags.
var Build = ""
