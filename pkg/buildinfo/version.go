// Package buildinfo holds the version stamped into the nodevis binary.
//
// The variables are set with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/nodevis/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/nodevis/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/nodevis
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the git commit SHA.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build information reported by the CLI and the HTTP API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the build information of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Current().String() + "\n"
}
