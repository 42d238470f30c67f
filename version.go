package main

import "github.com/fzft/go-resp3/cmd"

// Set with -ldflags "-X main.gitSHA1=..." at build time.
var (
	gitSHA1   string = "unknown"
	gitDirty  string = "unknown"
	buildDate string = "unknown"
)

func buildInfo() cmd.BuildInfo {
	return cmd.BuildInfo{
		GitSHA1:   gitSHA1,
		GitDirty:  gitDirty,
		BuildDate: buildDate,
	}
}
