package main

import (
	"fmt"
	"io"
	"time"

	"voxreel/internal/pipeline"
)

const humanizeRound = time.Second

const (
	ansiBlue  = "\x1b[34m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// consoleReporter prints one line per stage transition, colorized when the
// output is a terminal.
type consoleReporter struct {
	out      io.Writer
	colorize bool
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out, colorize: isTerminal(out)}
}

func (r *consoleReporter) Stage(stage, status, message string) {
	var marker, color string
	switch status {
	case pipeline.StatusStarted:
		marker, color = "…", ansiBlue
	case pipeline.StatusDone:
		marker, color = "✓", ansiGreen
	case pipeline.StatusFailed:
		marker, color = "✗", ansiRed
	default:
		marker = "-"
	}
	line := fmt.Sprintf("%s %-10s %s", marker, stage, message)
	if r.colorize && color != "" {
		line = color + line + ansiReset
	}
	fmt.Fprintln(r.out, line)
}
