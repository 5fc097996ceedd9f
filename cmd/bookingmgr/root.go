package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ddgos/booking-manager/db"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

var version = "dev"

const (
	envPrefix = "BOOKINGMGR"

	logLevelKey    = "log-level"
	verboseKey     = "verbose"
	busyTimeoutKey = "busy-timeout"

	defaultLogLevel    = "warn"
	defaultBusyTimeout = 5
)

// app carries the state of one invocation: configuration, logger and the
// single database connection.
type app struct {
	cfg    *viper.Viper
	logger *zap.Logger
	log    *zap.SugaredLogger
	target db.Target
	conn   *gorm.DB
	store  db.Store
}

func newRootCmd() (*cobra.Command, error) {
	a := &app{cfg: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "bookingmgr <database> <command>",
		Short: "Manage resource bookings",
		Long: `Manage resource bookings stored in an embedded SQLite database.

<database> is either a path to a database file or ":memory:".

Commands:
  init-database            create the resource and booking tables
  resource create <name>   add a resource and print its id
  resource search <name>   print the id of the resource called <name>
  resource get <id>        print the name of the resource with <id>
  resource list            print every resource`,
		Example: `  bookingmgr bookings.db init-database
  bookingmgr bookings.db resource create Room101
  bookingmgr bookings.db resource get 1`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			target, err := db.ParseTarget(args[0])
			if err != nil {
				return err
			}
			a.target = target
			a.log.Infof("provided arguments: %v", args)

			commands := newCommandsCmd(a)
			commands.SetArgs(args[1:])
			commands.SetOut(cmd.OutOrStdout())
			commands.SetErr(cmd.ErrOrStderr())
			return commands.ExecuteContext(cmd.Context())
		},
	}
	// everything after <database> belongs to the command tree
	rootCmd.Flags().SetInterspersed(false)

	flags := rootCmd.PersistentFlags()
	flags.String(logLevelKey, defaultLogLevel, "Log level (debug, info, warn, error)")
	flags.BoolP(verboseKey, "v", false, "Enable verbose logging, including SQL statements")
	flags.Int(busyTimeoutKey, defaultBusyTimeout, "Seconds to wait on a locked database file")

	a.cfg.SetEnvPrefix(envPrefix)
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv() // binds environment variables to viper config
	if err := a.cfg.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	return rootCmd, nil
}

// newCommandsCmd builds the command tree that runs against the database.
func newCommandsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "bookingmgr",
		Args: requireSubcommand,
		// usage lines read "bookingmgr <database> resource get <id>"
		Annotations: map[string]string{
			cobra.CommandDisplayNameAnnotation: "bookingmgr <database>",
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newInitDatabaseCmd(a), newResourceCmd(a))
	return cmd
}

// requireSubcommand rejects a parent command invoked without a known
// subcommand before any connection is opened.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%q requires a command", cmd.CommandPath())
	}
	return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
}

func (a *app) setup(w io.Writer) error {
	level := a.cfg.GetString(logLevelKey)
	if a.cfg.GetBool(verboseKey) {
		level = "debug"
	}
	logger, err := newLogger(w, level)
	if err != nil {
		return err
	}
	a.logger = logger
	a.log = logger.Sugar()
	return nil
}

func (a *app) connect(ctx context.Context) error {
	if a.conn != nil {
		return nil
	}
	a.log.Infof("connecting to database %s...", a.target)
	conn, err := db.Open(a.target, db.Options{
		BusyTimeout: time.Duration(a.cfg.GetInt(busyTimeoutKey)) * time.Second,
		Logger:      a.log,
		LogSQL:      a.logger.Core().Enabled(zapcore.DebugLevel),
	})
	if err != nil {
		return err
	}
	a.conn = conn
	a.store = db.NewSQLStore(conn, a.log)
	if err := a.store.Ping(ctx); err != nil {
		return fmt.Errorf("connecting to %s: %w", a.target, err)
	}
	a.log.Infof("database connection made")
	return nil
}

func (a *app) close() {
	if a.conn != nil {
		if err := db.Close(a.conn); err != nil {
			a.log.Warnf("failed to close database %s: %v", a.target, err)
		}
		a.conn = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newLogger(w io.Writer, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", logLevelKey, level, err)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}
