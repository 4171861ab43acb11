// aurelius builds a personal hearing profile from an interactive tone test and
// applies it to live audio.
//
// Usage:
//
//	aurelius calibrate
//	aurelius run
//	aurelius serve
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/cmd/aurelius/commands"
	"github.com/RMahshie/aurelius/internal/cli"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := commands.Execute(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
