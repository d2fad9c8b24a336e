package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/erazemk/najdeno/internal/config"
	"github.com/erazemk/najdeno/internal/db"
)

type flags struct {
	configPath string
	dbPath     string
	addr       string
	logPath    string
	adminName  string
	adminEmail string
}

func parseFlags(args []string) (*flags, error) {
	fs := flag.NewFlagSet("najdeno", flag.ContinueOnError)
	var f flags

	fs.StringVar(&f.configPath, "config", "", "")
	fs.StringVar(&f.configPath, "c", "", "")
	fs.StringVar(&f.dbPath, "db", "", "")
	fs.StringVar(&f.dbPath, "d", "", "")
	fs.StringVar(&f.addr, "addr", "", "")
	fs.StringVar(&f.addr, "a", "", "")
	fs.StringVar(&f.logPath, "log", "", "")
	fs.StringVar(&f.logPath, "l", "", "")
	fs.StringVar(&f.adminName, "admin-name", "Admin", "")
	fs.StringVar(&f.adminEmail, "admin-email", "", "")
	fs.StringVar(&f.adminEmail, "e", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: najdeno [flags]

Flags:
  -c, -config <path>       YAML config file (default: $CONFIG_PATH or ./najdeno.yaml)
  -d, -db <path>           SQLite database path (overrides database.path)
  -a, -addr <host:port>    listen address (overrides server.addr)
  -l, -log <path>          log file path (overrides log.path)
  -e, -admin-email <addr>  admin email, used on first run only
      -admin-name <name>   admin display name on first run (default: Admin)
  -h, -help                show this help and exit
`)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return &f, nil
}

// apply copies flags that were set over the loaded configuration.
func (f *flags) apply(cfg *config.Config) {
	if f.dbPath != "" {
		cfg.Database.Path = f.dbPath
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.logPath != "" {
		cfg.Log.Path = f.logPath
	}
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	f.apply(cfg)

	log, closeLog, err := newLogger(cfg.Log, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(log)

	if err := run(log, cfg, f); err != nil {
		log.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(log *slog.Logger, cfg *config.Config, f *flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	created, err := bootstrapAdmin(ctx, database, f.adminName, f.adminEmail)
	if err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}
	if created {
		log.Info("admin account created, log in with a one-time code", "email", f.adminEmail)
	}

	handler, err := newHandler(ctx, log, database, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", cfg.Server.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server stopped, closing database")
	return nil
}
