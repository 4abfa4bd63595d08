package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wordcache "github.com/unowned-ai/wordcache/pkg"
	"github.com/unowned-ai/wordcache/pkg/config"
	pkgdb "github.com/unowned-ai/wordcache/pkg/db"
	"github.com/unowned-ai/wordcache/pkg/kv"
	"github.com/unowned-ai/wordcache/pkg/logging"
	"github.com/unowned-ai/wordcache/pkg/utils"
	"github.com/unowned-ai/wordcache/pkg/words"
)

// app carries the resolved configuration shared by every command.
type app struct {
	// Flag values; they override the environment only when set.
	dbPath     string
	walMode    bool
	syncMode   string
	storageKey string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

// workspace is an open database plus the word session loaded from it.
type workspace struct {
	db      *sql.DB
	dbPath  string
	session *words.Session
	logger  *zap.Logger
}

func (w *workspace) Close() {
	w.session.Close()
	if err := pkgdb.CloseDBConnection(w.db); err != nil {
		w.logger.Warn("Failed to close database", zap.String("path", w.dbPath), zap.Error(err))
	}
}

// configure merges the environment with explicitly set flags and builds the logger.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if flags.Changed("wal") {
		cfg.WAL = a.walMode
	}
	if flags.Changed("sync") {
		cfg.SyncMode = a.syncMode
	}
	if flags.Changed("key") {
		cfg.StorageKey = a.storageKey
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// openDB resolves the database path, opens it and brings the schema up to date.
func (a *app) openDB() (*sql.DB, string, error) {
	path, err := utils.ResolveAndEnsureDBPath(a.cfg.DBPath)
	if err != nil {
		return nil, "", err
	}

	dbConn, err := pkgdb.OpenDBConnection(path, a.cfg.WAL, a.cfg.SyncMode)
	if err != nil {
		return nil, "", err
	}

	if err := pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion, a.logger); err != nil {
		dbConn.Close()
		return nil, "", fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
	}
	return dbConn, path, nil
}

// openWorkspace opens the database and loads the word collection from it.
func (a *app) openWorkspace(ctx context.Context) (*workspace, error) {
	dbConn, path, err := a.openDB()
	if err != nil {
		return nil, err
	}

	session := words.Open(ctx, kv.NewSQLiteStore(dbConn),
		words.WithStorageKey(a.cfg.StorageKey),
		words.WithLogger(a.logger),
	)
	a.logger.Debug("Workspace opened", zap.String("db", path), zap.String("key", a.cfg.StorageKey))
	return &workspace{db: dbConn, dbPath: path, session: session, logger: a.logger}, nil
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "wordcache",
		Short:         "A personal vocabulary notebook with a random review flow.",
		Version:       fmt.Sprintf("v%s", wordcache.Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to the database file (env WORDCACHE_DB, uses system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&a.walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode (env WORDCACHE_WAL)")
	rootCmd.PersistentFlags().StringVar(&a.syncMode, "sync", config.DefaultSyncMode, "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA) (env WORDCACHE_SYNC)")
	rootCmd.PersistentFlags().StringVar(&a.storageKey, "key", config.DefaultStorageKey, "Storage key the word collection is saved under (env WORDCACHE_STORAGE_KEY)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error (env WORDCACHE_LOG_LEVEL)")

	rootCmd.AddCommand(
		newCompletionCmd(rootCmd),
		newVersionCmd(),
		newDBCmd(a),
		newWordsCmd(a),
		newStatsCmd(a),
		newReviewCmd(a),
		newMCPCmd(a),
		newTUICmd(a),
	)
	return rootCmd
}

func newCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wordcache.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(wordcache completion bash)

  Zsh:
    $ wordcache completion zsh > "${fpath[1]}/_wordcache"

  Fish:
    $ wordcache completion fish > ~/.config/fish/completions/wordcache.fish

  PowerShell:
    PS> wordcache completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return rootCmd.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version number of wordcache",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), wordcache.Version)
		},
	}
}

func newDBCmd(a *app) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the wordcache database",
	}

	dbUpgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Create or upgrade the database schema for the blobstore component",
		Long: `Connects to the SQLite database (--db or WORDCACHE_DB, else the system default) and
brings the blobstore component up to the current schema version. A missing or
uninitialized database is created with the latest schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConn, path, err := a.openDB()
			if err != nil {
				return err
			}
			defer pkgdb.CloseDBConnection(dbConn)

			fmt.Fprintf(cmd.OutOrStdout(), "Database at %s is at schema version %d (WAL: %t, Sync: %s)\n",
				path, pkgdb.TargetSchemaVersion, a.cfg.WAL, a.cfg.SyncMode)
			return nil
		},
	}

	dbCmd.AddCommand(dbUpgradeCmd)
	return dbCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
