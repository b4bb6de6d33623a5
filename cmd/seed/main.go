package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"orders/cmd"
	"orders/internal/adapters/out/persistence"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/services"

	"github.com/spf13/pflag"
)

type options struct {
	users     int
	products  int
	orders    int
	batchSize int
	seed      uint64
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.IntVar(&opts.users, "users", 1000, "number of users to have in the catalog")
	flagSet.IntVar(&opts.products, "products", 200, "number of products to have in the catalog")
	flagSet.IntVar(&opts.orders, "orders", 5000, "number of orders to create")
	flagSet.IntVar(&opts.batchSize, "batch", 500, "rows per insert batch")
	flagSet.Uint64Var(&opts.seed, "seed", 42, "random seed")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintf(os.Stderr, "Usage: seed [flags]\n\nLoads catalog and order fixtures into the configured database.\n\n%s", flagSet.FlagUsages())
		return nil
	}
	if opts.users <= 0 || opts.products <= 0 || opts.orders < 0 {
		return errors.New("--users and --products must be positive and --orders non-negative")
	}

	config, err := cmd.LoadConfig()
	if err != nil {
		return err
	}
	if config.DBDriver == cmd.DriverMemory {
		return errors.New("seeding needs DB_DRIVER=postgres or DB_DRIVER=mysql")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel}))
	app, err := cmd.NewCompositionRoot(ctx, config, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}
	defer app.Close()

	ids, err := persistence.SeedCatalog(ctx, app.GormDB(), persistence.SeedConfig{
		Users:     opts.users,
		Products:  opts.products,
		BatchSize: opts.batchSize,
		Seed:      opts.seed,
	})
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("Catalog ready", "users", len(ids.UserIDs), "products", len(ids.ProductIDs))

	created, paid, err := seedOrders(ctx, app, ids, opts)
	logger.Info("Orders seeded", "created", created, "paid", paid)
	return err
}

// seedOrders goes through the regular use cases so fixture data obeys the
// same pricing and payment rules as live traffic.
func seedOrders(ctx context.Context, app *cmd.CompositionRoot, ids persistence.CatalogIDs, opts options) (created, paid int, err error) {
	createHandler := app.CreateCreateOrderCommandHandler()
	payHandler := app.CreatePayOrderCommandHandler()
	rnd := rand.New(rand.NewPCG(opts.seed, opts.seed+1))

	for range opts.orders {
		if err := ctx.Err(); err != nil {
			return created, paid, err
		}

		lines := make([]services.Line, 1+rnd.IntN(5))
		for i := range lines {
			lines[i] = services.Line{
				ProductID: ids.ProductIDs[rnd.IntN(len(ids.ProductIDs))],
				Quantity:  1 + rnd.IntN(3),
			}
		}
		createCmd, err := commands.NewCreateOrderCommand(ids.UserIDs[rnd.IntN(len(ids.UserIDs))], lines)
		if err != nil {
			return created, paid, err
		}
		o, err := createHandler.Handle(ctx, createCmd)
		if err != nil {
			return created, paid, fmt.Errorf("create order: %w", err)
		}
		created++

		if rnd.IntN(2) == 0 {
			continue
		}
		payCmd, err := commands.NewPayOrderCommand(o.ID(), int64(o.Total()))
		if err != nil {
			return created, paid, err
		}
		if _, err := payHandler.Handle(ctx, payCmd); err != nil {
			return created, paid, fmt.Errorf("pay order %d: %w", o.ID(), err)
		}
		paid++
	}
	return created, paid, nil
}
