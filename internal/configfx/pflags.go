package configfx

import (
	"os"

	"github.com/spf13/pflag"
)

const (
	FlagConfig = "config"
	FlagOnce   = "once"
)

func PFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

	// Config file flag
	fs.StringP(FlagConfig, "c", "", "Config file")

	// Run every job a single time regardless of its execution mode, then exit
	fs.Bool(FlagOnce, false, "Run all jobs once and exit")

	return fs
}

// ParsedPFlags is provided to the daemon, which parses its own arguments.
func ParsedPFlags() (*pflag.FlagSet, error) {
	fs := PFlags()

	return fs, fs.Parse(os.Args[1:])
}
