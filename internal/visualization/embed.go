package visualization

import "embed"

// assets contains the embedded live view page.
//
//go:embed assets/*
var assets embed.FS
