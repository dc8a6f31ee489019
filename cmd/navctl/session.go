package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/clientconfig"
	"github.com/MrSnakeDoc/navdesk/internal/desk"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
)

var out io.Writer = os.Stdout

const flushTimeout = 15 * time.Second

type action func(ctx context.Context, cmd *cli.Command, d *desk.Desk) error

// withDesk loads the config, starts a desk and, once the action returns,
// waits for icon lookups and flushes pending saves.
func withDesk(fn action) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := clientconfig.LoadOrDefault(cmd.String("config"))
		if err != nil {
			return err
		}
		if s := cmd.String("server"); s != "" {
			cfg.Server = s
		}
		if l := cmd.String("log-level"); l != "" {
			cfg.LogLevel = l
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := logger.New(cfg.LogLevel, true)
		defer func() { _ = log.Sync() }()

		d, err := desk.New(cfg, log)
		if err != nil {
			return err
		}
		if _, err := d.Start(ctx); err != nil {
			log.Warn("could not load document, showing default", logger.Error(err))
		}

		runErr := fn(ctx, cmd, d)

		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := d.Drain(flushCtx); err != nil && runErr == nil {
			runErr = fmt.Errorf("flush pending saves: %w", err)
		}
		return runErr
	}
}

func intArg(cmd *cli.Command, i int, name string) (int, error) {
	raw := cmd.Args().Get(i)
	if raw == "" {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", name, raw)
	}
	return n, nil
}

func stringArg(cmd *cli.Command, i int, name string) (string, error) {
	v := cmd.Args().Get(i)
	if v == "" {
		return "", fmt.Errorf("missing %s argument", name)
	}
	return v, nil
}

// describe turns engine errors into messages for the terminal.
func describe(err error) string {
	var ve *apperr.ValidationError
	var pe *apperr.ParseError
	switch {
	case errors.As(err, &ve):
		return fmt.Sprintf("%s: %s", ve.Field, ve.Reason)
	case errors.As(err, &pe):
		return "cannot import: " + pe.Error()
	case errors.Is(err, apperr.ErrReadOnly):
		return "read-only guest view, run `navctl login` first"
	case errors.Is(err, apperr.ErrUnauthorized):
		return "not authorized"
	}
	return err.Error()
}
