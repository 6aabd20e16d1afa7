package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/fakeapi"
	"github.com/koltont40/networkmonitoring/internal/logger"
)

type demoOptions struct {
	hosts    int
	backfill int
	tick     time.Duration
	listen   string
	serve    bool
}

func newDemoCmd(a *app) *cobra.Command {
	opts := demoOptions{hosts: 8, backfill: 60, tick: 3 * time.Second, listen: "127.0.0.1:0"}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the dashboard against a simulated backend",
		Long: `Start an in-memory backend with simulated hosts and open the dashboard
on it. The backend serves the same HTTP API as the real one, so --serve
can also be used to point other tools at it.

Examples:
  netmon demo
  netmon demo --hosts 20 --tick 1s
  netmon demo --serve --listen 127.0.0.1:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.demo(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.hosts, "hosts", opts.hosts, "number of simulated hosts")
	cmd.Flags().IntVar(&opts.backfill, "backfill", opts.backfill, "history samples generated per host at start")
	cmd.Flags().DurationVar(&opts.tick, "tick", opts.tick, "simulated probe interval")
	cmd.Flags().StringVar(&opts.listen, "listen", opts.listen, "address the simulated backend listens on")
	cmd.Flags().BoolVar(&opts.serve, "serve", false, "only serve the API, without the dashboard")
	return cmd
}

func (a *app) demo(cmd *cobra.Command, opts demoOptions) error {
	if opts.hosts < 1 || opts.tick <= 0 {
		return errors.New(errors.ErrInput,
			"--hosts must be at least 1 and --tick positive",
			"Example: netmon demo --hosts 8 --tick 3s")
	}

	backendLog := a.tuiLog
	if opts.serve {
		backendLog = logger.NewConsole(cmd.ErrOrStderr(), "info", "demo")
	}
	backend := fakeapi.New(fakeapi.WithLogger(backendLog))
	backend.SeedDemo(opts.hosts, opts.backfill, opts.tick)

	ln, err := net.Listen("tcp", opts.listen)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't listen on "+opts.listen,
			"Pick a free address with --listen, or use 127.0.0.1:0.")
	}
	srv := &http.Server{Handler: backend, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go backend.Run(ctx, opts.tick)

	url := "http://" + ln.Addr().String()
	if opts.serve {
		fmt.Fprintf(cmd.OutOrStdout(), "Simulated backend on %s (%d hosts). Ctrl+C to stop.\n", url, opts.hosts)
		<-ctx.Done()
		return shutdown(srv)
	}

	if !interactive() {
		return errors.New(errors.ErrInput,
			"The dashboard needs an interactive terminal",
			"Use --serve to run only the simulated backend.")
	}

	a.cfg.Server.URL = url
	dashOpts := a.dashboardOptions("")
	dashOpts.Source = "demo " + url
	client := api.New(url, api.WithTimeout(a.cfg.Server.Timeout), api.WithLogger(a.tuiLog))
	return runProgram(cmd, client, dashOpts)
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
