package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/heathj/domevents/config"
	"github.com/heathj/domevents/scenario"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	flag.BoolVar(&cfg.Strict, "strict", cfg.Strict, "report protocol violations as errors")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "logrus level")
	noColor := flag.Bool("no-color", false, "disable coloured output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scenario.json\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *noColor {
		color.NoColor = true
	}

	log, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(flag.Arg(0), cfg, log); err != nil {
		log.WithField("method", "main").Error(err)
		os.Exit(1)
	}
}

func run(path string, cfg config.Config, log *logrus.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	s, err := scenario.Decode(f)
	if err != nil {
		return err
	}
	w, err := scenario.Build(s, cfg, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"scenario": s.Name,
		"nodes":    w.Doc.Len(),
		"boxes":    w.Boxes.Len(),
	}).Info("replaying")

	results := w.Run(s.Steps)
	scenario.Print(color.Output, w.Trace.Entries(), results)
	log.Debugf("[TREE]:\n%s", w.Doc.Root().Tree())
	return nil
}
