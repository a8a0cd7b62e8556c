package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cuzdan/internal/amqp"
	"cuzdan/internal/cli"
	"cuzdan/internal/core"
	"cuzdan/internal/log"
	"cuzdan/internal/services"
	"cuzdan/internal/store"
)

var errNoActiveProfile = errors.New("no active profile, pass --profile or run 'cuzdanctl profiles select'")

// app carries the resources shared by every subcommand. Tests set store
// before executing so the environment is never read.
type app struct {
	out     io.Writer
	store   *store.Store
	exports *services.ExportService
	closers []func() error
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cuzdanctl",
		Short: "Manage cuzdan wallets from the command line",
		Long: `cuzdanctl reads and edits the same storage backend as the cuzdan server.

Configuration comes from the environment (and a .env file when present),
using the same variables as the server. Stop the server before running
commands that change data, both processes save the whole state.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}
	cmd.SetOut(a.out)

	cmd.AddCommand(profilesCmd(a))
	cmd.AddCommand(transactionsCmd(a))
	cmd.AddCommand(summaryCmd(a))
	cmd.AddCommand(reportCmd(a))
	cmd.AddCommand(trendCmd(a))
	cmd.AddCommand(upcomingCmd(a))
	cmd.AddCommand(calendarCmd(a))
	cmd.AddCommand(cleanupCmd(a))
	cmd.AddCommand(exportCmd(a))
	return cmd
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	if a.store != nil {
		return nil
	}
	ctx := cmd.Context()

	cli.LoadEnvFile()
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := log.New(log.Config{Level: level, Component: log.ComponentCLI, Output: os.Stderr})
	log.SetDefault(logger)

	storage, err := cli.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.store = storage.Store
	a.closers = append(a.closers, storage.Close)

	writer, err := cli.NewReportWriter(ctx, cfg)
	if err != nil {
		return err
	}
	var publisher services.ExportPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, exports are written directly", log.FieldError, err)
		} else {
			publisher = client
			a.closers = append(a.closers, client.Close)
		}
	}
	if writer != nil || publisher != nil {
		a.exports = services.NewExportService(a.store, writer, publisher)
	}
	return nil
}

// close releases what open acquired, in reverse order.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// profile resolves the --profile flag, falling back to the active profile.
func (a *app) profile(id string) (core.Profile, error) {
	if id != "" {
		p, ok := a.store.Profile(id)
		if !ok {
			return core.Profile{}, fmt.Errorf("%q: %w", id, core.ErrProfileNotFound)
		}
		return p, nil
	}
	p, ok := a.store.ActiveProfile()
	if !ok {
		return core.Profile{}, errNoActiveProfile
	}
	return p, nil
}

func addProfileFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "profile", "p", "", "profile ID (default: the active profile)")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{out: os.Stdout}
	err := newRootCmd(a).ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
