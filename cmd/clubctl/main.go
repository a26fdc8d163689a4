// Package main содержит точку входа административной утилиты clubctl.
package main

import "github.com/IvanChernomyrdin/clubhouse/internal/admin/cli"

var (
	// buildVersion задаётся при сборке через -ldflags.
	buildVersion = "dev"
	// buildDate задаётся при сборке через -ldflags.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
