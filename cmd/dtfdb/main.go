// Package main is the dtfdb command line client.
//
// dtfdb queries and mutates a schema-defined flat-file database: select,
// insert, update, and delete against tables persisted as delimited text
// files. Configuration is read from CLI flags and an optional dtfdb.yaml
// config file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dtfdb/dtfdb"
	"github.com/dtfdb/dtfdb/query"
	"github.com/dtfdb/dtfdb/schemacache"
)

var (
	flagConfig   string
	flagDatapath string
	flagDatabase string
	flagLogLevel string
	flagPrepend  bool
	flagNoCache  bool
	flagLegacy   bool
	flagHistory  bool

	flagColumns  string
	flagCriteria string
	flagOrder    string
	flagJSON     bool

	cfg config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dtfdb: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dtfdb",
	Short: "Flat-file record store client",
	Long: `dtfdb queries and mutates a schema-defined flat-file database:
tables declared in a .dbd schema file, records persisted in delimited
.dtf data files.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func setup(cmd *cobra.Command, _ []string) error {
	explicit := cmd.Flags().Changed("config")
	var err error
	if cfg, err = loadConfig(flagConfig, explicit); err != nil {
		return err
	}
	if cmd.Flags().Changed("datapath") {
		cfg.Datapath = flagDatapath
	}
	if cmd.Flags().Changed("database") {
		cfg.Database = flagDatabase
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flagPrepend {
		cfg.PrependDatabaseName = true
	}
	if flagNoCache {
		cfg.NoCache = true
	}
	if flagLegacy {
		cfg.LegacyDelimiters = true
	}
	if flagHistory {
		cfg.TrackHistory = true
	}
	if cfg.Database == "" {
		return fmt.Errorf("no database specified; use --database or the config file")
	}

	ll := &slog.LevelVar{}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
		ll.Set(slog.LevelInfo)
	case "warn", "warning":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
	return nil
}

// openDB opens the configured database with a SQLite-backed schema cache.
func openDB() (*dtfdb.DB, func(), error) {
	cachePath := cfg.CachePath
	if cachePath == "" {
		cachePath = filepath.Join(cfg.Datapath, ".dtfdb-cache.db")
	}
	cache, err := schemacache.OpenSQLite(cachePath)
	if err != nil {
		return nil, nil, err
	}
	db, err := dtfdb.Open(cfg.Datapath, cfg.Database, &dtfdb.Options{
		PrependDatabaseName: cfg.PrependDatabaseName,
		NoCache:             cfg.NoCache,
		LegacyDelimiters:    cfg.LegacyDelimiters,
		Cache:               cache,
		TrackHistory:        cfg.TrackHistory,
	})
	if err != nil {
		_ = cache.Close()
		return nil, nil, err
	}
	return db, func() { _ = cache.Close() }, nil
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables in declaration order",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()
		for _, name := range db.ListTables() {
			fmt.Println(name)
		}
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema <table>",
	Short: "Show a table's columns, key first",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()
		if flagJSON {
			t, err := db.Table(args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(t.JSONSchema(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		cols, err := db.TableSchema(args[0])
		if err != nil {
			return err
		}
		for _, col := range cols {
			fmt.Println(col)
		}
		return nil
	},
}

var keyCmd = &cobra.Command{
	Use:   "key <table>",
	Short: "Show a table's primary-key column",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()
		key, err := db.PrimaryKey(args[0])
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <table>",
	Short: "Select rows from a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()
		rows, err := db.Select(cmd.Context(), args[0], flagColumns, flagCriteria, flagOrder)
		if err != nil {
			return err
		}
		if flagJSON {
			out, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		names := query.ParseColumns(flagColumns)
		if names == nil {
			if names, err = db.TableSchema(args[0]); err != nil {
				return err
			}
		}
		fmt.Println(strings.Join(names, "\t"))
		for _, row := range rows {
			vals := make([]string, len(names))
			for i, name := range names {
				vals[i] = row[name]
			}
			fmt.Println(strings.Join(vals, "\t"))
		}
		return nil
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert <table> <value>...",
	Short: "Insert a record and print the key used",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()
		key, err := db.Insert(cmd.Context(), args[0], flagColumns, args[1:])
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <table> <value>...",
	Short: "Update matching rows and print the count touched",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()
		n, err := db.Update(cmd.Context(), args[0], flagColumns, args[1:], flagCriteria)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Delete matching rows and print the count removed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()
		n, err := db.Delete(cmd.Context(), args[0], flagCriteria)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the schema on definition file changes until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
		defer stop()
		if err := db.Watch(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "dtfdb.yaml", "Config file")
	pf.StringVar(&flagDatapath, "datapath", ".", "Directory holding schema and table data files")
	pf.StringVarP(&flagDatabase, "database", "d", "", "Database name (schema file basename)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flagPrepend, "prepend-database-name", false, "Prefix table filenames with the database name")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the schema-cache read at open")
	pf.BoolVar(&flagLegacy, "legacy-delimiters", false, "Use the legacy delimiter pair")
	pf.BoolVar(&flagHistory, "track-history", false, "Commit mutations to a git repository at the datapath")

	for _, c := range []*cobra.Command{selectCmd, insertCmd, updateCmd} {
		c.Flags().StringVar(&flagColumns, "columns", "*", "Comma-separated column list")
	}
	for _, c := range []*cobra.Command{selectCmd, updateCmd, deleteCmd} {
		c.Flags().StringVar(&flagCriteria, "where", "", "Criteria (COLUMN=VALUE, COLUMN=/regex/, or a bare key value)")
	}
	selectCmd.Flags().StringVar(&flagOrder, "order", "", "Sort specification (<column> [ASC|DESC])")
	selectCmd.Flags().BoolVar(&flagJSON, "json", false, "Emit JSON")
	schemaCmd.Flags().BoolVar(&flagJSON, "json", false, "Emit a JSON Schema document")

	rootCmd.AddCommand(tablesCmd, schemaCmd, keyCmd, selectCmd, insertCmd, updateCmd, deleteCmd, watchCmd)
}
