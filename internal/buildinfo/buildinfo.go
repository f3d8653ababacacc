// Package buildinfo exposes build metadata stamped in via -ldflags:
//
//	go build -ldflags "-X github.com/akarpovs/shelfkeeper/internal/buildinfo.buildVersion=v1.0.0 \
//	  -X github.com/akarpovs/shelfkeeper/internal/buildinfo.buildDate=2026-08-27 \
//	  -X github.com/akarpovs/shelfkeeper/internal/buildinfo.buildCommit=abc1234"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// Version returns the stamped build version.
func Version() string {
	return buildVersion
}

// PrintBuildData writes the build metadata banner to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
