/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"time"

	"github.com/spf13/cobra"

	"github.com/carverauto/snmp-inventory/pkg/config"
	"github.com/carverauto/snmp-inventory/pkg/db"
	"github.com/carverauto/snmp-inventory/pkg/inventory"
	"github.com/carverauto/snmp-inventory/pkg/logger"
	"github.com/carverauto/snmp-inventory/pkg/models"
	"github.com/carverauto/snmp-inventory/pkg/natsutil"
	"github.com/carverauto/snmp-inventory/pkg/snmp"
	"github.com/carverauto/snmp-inventory/pkg/version"
)

const (
	exitOK = iota
	exitUsage
	exitInvalidTarget
	exitStoreFailure
	exitSetupFailure
)

var (
	errUsage          = errors.New("usage: snmp-inventory [flags] <community> <ipv4-address>")
	errInvalidTarget  = errors.New("not a valid IPv4 address")
	errEmptyCommunity = errors.New("community must not be empty")
	errLoadConfig     = errors.New("failed to load configuration")
	errSetupLogger    = errors.New("failed to set up logging")
	errOpenStore      = errors.New("failed to open inventory store")
	errSNMPSetup      = errors.New("failed to set up SNMP client")
)

// exitError carries the process exit code for a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, err error) error {
	return &exitError{code: code, err: err}
}

type options struct {
	configPath string
	initSchema bool
	logDir     string
	debug      bool
	timeout    time.Duration
	retries    int
	port       uint16
}

// snmpSession is the client surface the command needs.
type snmpSession interface {
	inventory.Querier
	Connect() error
	Close() error
}

var newSNMPSession = func(params snmp.Params, log logger.Logger) (snmpSession, error) {
	client, err := snmp.NewClient(params, log)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "snmp-inventory [flags] <community> <ipv4-address>",
		Short:         "Discover one device over SNMPv2c and replace its inventory record",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fail(exitUsage, errUsage)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to a JSON configuration file")
	flags.BoolVar(&opts.initSchema, "init-schema", false, "create the inventory tables when missing")
	flags.StringVar(&opts.logDir, "log-dir", "", "mirror log output to <dir>/<ip>.log")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.DurationVar(&opts.timeout, "timeout", snmp.DefaultTimeout, "SNMP request timeout")
	flags.IntVar(&opts.retries, "retries", snmp.DefaultRetries, "SNMP retries per request")
	flags.Uint16Var(&opts.port, "port", snmp.DefaultPort, "SNMP agent UDP port")

	return cmd
}

// execute runs the command and maps the outcome to an exit code.
func execute(args []string, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "snmp-inventory: %v\n", err)

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	return exitUsage
}

func parseTarget(target string) (string, error) {
	addr, err := netip.ParseAddr(target)
	if err != nil || !addr.Is4() {
		return "", fmt.Errorf("%w: %q", errInvalidTarget, target)
	}

	return addr.String(), nil
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, community, target string) error {
	ip, err := parseTarget(target)
	if err != nil {
		return fail(exitInvalidTarget, err)
	}

	if community == "" {
		return fail(exitUsage, errEmptyCommunity)
	}

	dotenvPath, err := config.LoadDotEnv()
	if err != nil {
		return fail(exitSetupFailure, err)
	}

	cfg, err := config.Load(ctx, opts.configPath, nil)
	if err != nil {
		return fail(exitSetupFailure, fmt.Errorf("%w: %w", errLoadConfig, err))
	}

	applyFlagOverrides(cmd, opts, cfg)

	log, logCloser, err := logger.NewForDevice(&cfg.Logging, ip)
	if err != nil {
		return fail(exitSetupFailure, fmt.Errorf("%w: %w", errSetupLogger, err))
	}
	defer func() { _ = logCloser.Close() }()

	if opts.debug {
		log.SetDebug(true)
	}

	if dotenvPath != "" {
		log.Debug().Str("dotenv", dotenvPath).Msg("loaded .env")
	}

	store, err := db.New(ctx, &cfg.Database, log)
	if err != nil {
		return fail(exitStoreFailure, fmt.Errorf("%w: %w", errOpenStore, err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close inventory store")
		}
	}()

	if opts.initSchema {
		if err := store.InitSchema(ctx); err != nil {
			return fail(exitStoreFailure, err)
		}
	}

	session, err := newSNMPSession(snmp.Params{
		Target:         ip,
		Community:      community,
		Port:           cfg.SNMP.Port,
		Timeout:        time.Duration(cfg.SNMP.Timeout),
		Retries:        cfg.SNMP.Retries,
		MaxRepetitions: cfg.SNMP.MaxRepetitions,
	}, log)
	if err != nil {
		return fail(exitSetupFailure, fmt.Errorf("%w: %w", errSNMPSetup, err))
	}

	if err := session.Connect(); err != nil {
		return fail(exitSetupFailure, fmt.Errorf("%w: %w", errSNMPSetup, err))
	}
	defer func() { _ = session.Close() }()

	var publisher inventory.Publisher

	if cfg.NATSEnabled() {
		eventPublisher, closeNATS, err := natsutil.Connect(ctx, &cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("inventory events disabled")
		} else {
			defer closeNATS()

			publisher = eventPublisher
		}
	}

	svc, err := inventory.NewService(session, store, publisher, log)
	if err != nil {
		return fail(exitSetupFailure, err)
	}

	_, result, err := svc.Run(ctx, ip)
	if err != nil {
		if errors.Is(err, inventory.ErrStoreFailed) {
			return fail(exitStoreFailure, err)
		}

		return fail(exitSetupFailure, err)
	}

	log.Info().
		Str("device_ip", ip).
		Int64("device_id", result.DeviceID).
		Bool("replaced", result.Replaced).
		Int("interfaces", result.InterfaceCount).
		Msg("inventory updated")

	return nil
}

// applyFlagOverrides lets explicitly set flags win over file and environment.
func applyFlagOverrides(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("timeout") {
		cfg.SNMP.Timeout = models.Duration(opts.timeout)
	}

	if flags.Changed("retries") {
		cfg.SNMP.Retries = opts.retries
	}

	if flags.Changed("port") {
		cfg.SNMP.Port = opts.port
	}

	if flags.Changed("log-dir") {
		cfg.Logging.Dir = opts.logDir
	}
}
