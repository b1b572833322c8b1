package main

import (
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/cmd"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/version"
)

// Version may be set at build time via -ldflags "-X main.Version=...".
// If left as "dev", we will attempt to derive a version from Go build info.
var Version = "dev"

func main() {
	cmd.SetVersion(version.Effective(Version))
	cmd.Execute()
}
