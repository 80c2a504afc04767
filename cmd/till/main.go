// Developer console for the coin till.
package main

import (
	"flag"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/till/helpers/cli"
	"github.com/temoto/till/log2"
	"github.com/temoto/till/state"
	"github.com/temoto/till/till"
)

var log = log2.NewStderr(log2.LInfo)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "till.hcl", "")
	flagDebug := cmdline.Bool("debug", false, "")
	_ = cmdline.Parse(os.Args[1:])

	log.SetFlags(log2.LInteractiveFlags)
	if *flagDebug {
		log.SetLevel(log2.LDebug)
	}

	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	if config.Till.LogDebug {
		log.SetLevel(log2.LDebug)
	}
	tc, err := config.TillConfig()
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	log.Debugf("config=%+v", tc)

	t, err := till.New(tc, log)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	s := &shell{log: log, till: t, w: os.Stdout}
	if err := cli.MainLoop("till", newExecutor(s), s.complete); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}

func newExecutor(s *shell) func(string) {
	return func(line string) {
		if err := s.exec(line); err != nil {
			s.log.Error(err)
		}
	}
}
