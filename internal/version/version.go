package version

import "strings"

// Version is overridden at build time using ldflags.
var Version = "0.3.0.dev1"

var Environment string

func init() {
	if strings.Contains(Version, "dev") {
		Environment = "development"
	} else {
		Environment = "production"
	}
}
