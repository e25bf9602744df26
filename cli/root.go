// Package cli implements the vesselflow command tree.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vesselflow/ppe-engine/config"
	"github.com/vesselflow/ppe-engine/factory"
	"github.com/vesselflow/ppe-engine/ppe"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	driver     string
	sqlitePath string
	fsRoot     string
	logLevel   string
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "vesselflow",
		Short: "VesselFlow - PPE issuance log and safety advisor",
		Long: `VesselFlow records personal protective equipment issued aboard vessels,
summarizes fleet usage, and answers safety questions with a hosted model.

Run "vesselflow serve" to start the HTTP API.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&opts.driver, "storage", "", "storage driver (sqlite|fs|memory|s3|redis|postgres)")
	pf.StringVar(&opts.sqlitePath, "db", "", "SQLite database path")
	pf.StringVar(&opts.fsRoot, "fs-root", "", "root directory for the fs driver")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")

	root.AddCommand(ServeCmd(opts))
	root.AddCommand(CatalogCmd())
	root.AddCommand(IssueCmd(opts))
	root.AddCommand(HistoryCmd(opts))
	root.AddCommand(StatsCmd(opts))
	root.AddCommand(AdviseCmd(opts))

	return root
}

// loadConfig applies flag overrides on top of file + environment.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.driver != "" {
		cfg.Storage.Driver = o.driver
	}
	if o.sqlitePath != "" {
		cfg.Storage.SQLitePath = o.sqlitePath
	}
	if o.fsRoot != "" {
		cfg.Storage.FSRoot = o.fsRoot
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, cfg.Validate()
}

// app is what every command needs: config, logger and a loaded store.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	records *ppe.Store
	closers []func() error
}

func (o *rootOptions) openApp(ctx context.Context) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := factory.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	blob, closeBlob, err := factory.OpenBlob(ctx, cfg.Storage)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	a.closers = append(a.closers, closeBlob)

	a.records = ppe.NewStore(blob, ppe.WithBlobKey(cfg.Storage.Key))
	if err := a.records.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("load records: %w", err)
	}
	logger.Debug("records loaded",
		zap.String("driver", string(blob.Driver())),
		zap.Int("records", len(a.records.Snapshot())))
	return a, nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
