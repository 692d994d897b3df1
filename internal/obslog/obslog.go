// Package obslog wires go-logr/stdr into the bridge-solver command-line
// tools the way an application with several independently-loggable
// subsystems needs: one named logger per component, "[Component]
// message" text to match the teacher's log.Printf texture, structured
// key-value pairs for anything a diagnostic session would want to grep
// or pipe into a real logging backend later.
package obslog

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

var base logr.Logger

func init() {
	stdr.SetVerbosity(1)
	base = stdr.New(log.New(os.Stderr, "", log.LstdFlags))
}

// For returns a logger scoped to one named component, e.g. For("solve")
// or For("pbn").
func For(component string) logr.Logger {
	return base.WithName(component)
}

// SetVerbose raises or lowers the global verbosity threshold; V(1) calls
// (the teacher's "Printf" equivalent) only emit once verbosity is at
// least 1.
func SetVerbose(verbose bool) {
	if verbose {
		stdr.SetVerbosity(1)
	} else {
		stdr.SetVerbosity(0)
	}
}
