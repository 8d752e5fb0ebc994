// Command scoreboard runs a single refresh cycle and prints the board.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/app/scoreboard"
	"github.com/zonera/scoreboard-service/internal/config"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/metrics"
	"github.com/zonera/scoreboard-service/internal/poller"
	"github.com/zonera/scoreboard-service/internal/providers"
	"github.com/zonera/scoreboard-service/internal/render"
	"github.com/zonera/scoreboard-service/internal/server"
	"github.com/zonera/scoreboard-service/internal/store"
	"github.com/zonera/scoreboard-service/internal/timeutil"
)

type options struct {
	status string
	date   string
	tz     string
	style  string
	json   bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "scoreboard:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, errOut io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("scoreboard", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&opts.status, "status", "all", "status filter: all, live, upcoming or finished")
	fs.StringVar(&opts.date, "date", "", "calendar day (YYYY-MM-DD or today); empty shows every day")
	fs.StringVar(&opts.tz, "tz", "", "IANA timezone for date filtering and kickoff times (defaults to TIMEZONE)")
	fs.StringVar(&opts.style, "style", "light", "table style: light, plain or markdown")
	fs.BoolVar(&opts.json, "json", false, "print the board as JSON")
	err := fs.Parse(args)
	return opts, err
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Keep stdout for the board.
	logger := logging.NewLogger(logging.Config{Level: "warn", Format: "text", Output: os.Stderr})

	tz := strings.TrimSpace(opts.tz)
	if tz == "" {
		tz = cfg.Timezone
	}
	loc := timeutil.ResolveLocation(tz)
	if loc == nil {
		return errors.Newf("unknown timezone %q", tz)
	}

	recorder := metrics.NewRecorder()
	fetchers, err := server.BuildFetchers(ctx, cfg, logger, recorder)
	if err != nil {
		return err
	}
	defer closeAll(fetchers, logger)

	svc := scoreboard.NewService(store.NewMemoryStore(), loc)
	cycle := poller.New(fetchers, logger, recorder, cfg.PollInterval, svc).RunOnce(ctx)
	for _, s := range cycle.Failed {
		fmt.Fprintf(os.Stderr, "warning: %s unavailable\n", s)
	}

	board, err := svc.Board(scoreboard.Query{
		Status: strings.ToLower(strings.TrimSpace(opts.status)),
		Date:   strings.TrimSpace(opts.date),
	})
	if err != nil {
		return err
	}
	if opts.json {
		payload, err := sonic.ConfigStd.MarshalIndent(board, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(payload))
		return err
	}
	render.Board(out, board.Leagues, render.Options{Location: loc, Style: opts.style})
	return nil
}

func closeAll(fetchers []providers.Fetcher, logger *slog.Logger) {
	for _, f := range fetchers {
		if err := providers.Close(f); err != nil {
			logging.Warn(logger, "source close failed", slog.String("source", string(f.Source())), "err", err)
		}
	}
}
