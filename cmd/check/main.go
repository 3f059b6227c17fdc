// Command check runs the display name classifier over a list of names, one per line,
// and reports the verdict for each. Useful to try the tables on an exported member list.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"nuclight.org/unicode-detector-bot/pkg/logger"
	"nuclight.org/unicode-detector-bot/pkg/script"
)

var opts struct {
	Input    string `short:"i" long:"input" description:"file with one display name per line, stdin when empty"`
	Flagged  bool   `long:"flagged" description:"print only flagged names"`
	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"log level: debug, info, warn, error"`
}

type stats struct {
	total, unique, flagged, nameless int
}

func main() {
	_, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}

	log, err := logger.NewLogger(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}

	err = check(log)
	if err != nil {
		log.Error("checking names", "error", err)
		os.Exit(1)
	}
}

func check(log logger.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	st, err := run(ctx, log, in, opts.Flagged)
	if err != nil {
		return fmt.Errorf("reading names: %w", err)
	}

	log.Info("done", "total", st.total, "unique", st.unique, "flagged", st.flagged, "nameless", st.nameless)
	return nil
}

func run(ctx context.Context, log logger.Logger, in io.Reader, onlyFlagged bool) (stats, error) {
	var st stats
	dedup := make(map[string]struct{})

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			log.Info("context done, stopping")
			return st, nil
		default:
		}

		st.total++
		name := strings.TrimRight(scanner.Text(), "\r")

		if _, exists := dedup[name]; exists {
			continue
		}
		dedup[name] = struct{}{}
		st.unique++

		if strings.TrimSpace(name) == "" {
			st.nameless++
			continue
		}

		flagged := script.IsFlagged(name)
		if flagged {
			st.flagged++
		}

		if onlyFlagged && !flagged {
			continue
		}

		log.Info("checked", "name", name, "flagged", flagged, "emoji", script.HasEmoji(name))
	}

	return st, scanner.Err()
}
