package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

type options struct {
	baseURL     string
	orders      int
	concurrency int
	payStorm    int
	users       int
	products    int
	timeout     time.Duration
	seed        uint64
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options

	flagSet := pflag.NewFlagSet("stress", pflag.ContinueOnError)
	flagSet.StringVar(&opts.baseURL, "url", "http://localhost:8080", "service base URL")
	flagSet.IntVarP(&opts.orders, "orders", "n", 200, "orders to create")
	flagSet.IntVarP(&opts.concurrency, "concurrency", "c", 32, "parallel requests")
	flagSet.IntVarP(&opts.payStorm, "pay-storm", "k", 10, "parallel pay attempts per order")
	flagSet.IntVar(&opts.users, "users", 10, "user ids to draw from (1..N)")
	flagSet.IntVar(&opts.products, "products", 20, "product ids to draw from (1..N)")
	flagSet.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")
	flagSet.Uint64Var(&opts.seed, "seed", 7, "random seed")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintf(os.Stderr, "Usage: stress [flags]\n\nDrives concurrent traffic against a running service and checks the lifecycle invariants.\n\n%s", flagSet.FlagUsages())
		return nil
	}
	if opts.orders <= 0 || opts.concurrency <= 0 || opts.payStorm < 2 || opts.users <= 0 || opts.products <= 0 {
		return errors.New("--orders, --concurrency, --users and --products must be positive and --pay-storm at least 2")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{
		client: &client{
			baseURL: opts.baseURL,
			http:    &http.Client{Timeout: opts.timeout},
		},
		opts: opts,
		rnd:  rand.New(rand.NewPCG(opts.seed, opts.seed+1)),
	}

	report, err := r.run(ctx)
	if err != nil {
		return err
	}
	if err := report.render(os.Stdout); err != nil {
		return err
	}
	if len(report.breaches) > 0 {
		return fmt.Errorf("%d invariant breaches", len(report.breaches))
	}
	return nil
}
