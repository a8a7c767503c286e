package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/config"
	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/pipeline"
	"github.com/matzehuels/familytree/pkg/state"
	"github.com/matzehuels/familytree/pkg/store"
)

// LogInfo is the starting log level used by main.go. The config file and
// --verbose adjust it once a command runs.
const LogInfo = log.InfoLevel

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        printer
	configPath string
	backend    string
	storePath  string
	family     string
	verbose    bool
	cfg        *config.Config
}

// New creates a CLI that logs to w and prints command output to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    printer{w: os.Stdout},
	}
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = printer{w: w}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "familytree",
		Short:        "Familytree records a family and draws it around one person",
		Long:         `Familytree keeps a family's people and relationships in a local or shared store and draws the ancestors and descendants of any chosen person as a tidy tree.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&c.backend, "store", "", "store backend: "+strings.Join(store.Backends, ", "))
	pf.StringVar(&c.storePath, "data", "", "data file for the file and sqlite stores")
	pf.StringVar(&c.family, "family", "", "family name within a shared store")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.personCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.unlinkCommand())
	root.AddCommand(c.relationsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Store
// =============================================================================

// loadConfig reads the config file and applies command-line overrides.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.storePath != "" {
		cfg.Store.Path = c.storePath
	}
	if c.family != "" {
		cfg.Store.Name = c.family
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// --verbose wins over the configured level.
	if c.verbose {
		c.Logger.SetLevel(log.DebugLevel)
	} else if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.Logger.SetLevel(level)
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded config, or defaults outside a command run.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// openStore opens the configured backend.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, c.config().StoreOptions())
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("opened store", "backend", c.config().Store.Backend)
	return s, nil
}

// loadData opens the store and reads the family. A store that has never
// been saved yields an empty family.
func (c *CLI) loadData(ctx context.Context) (*family.FamilyData, error) {
	s, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return store.LoadOrEmpty(ctx, s)
}

// withSession loads the family into a session that saves through the store
// and runs fn with it.
func (c *CLI) withSession(ctx context.Context, fn func(*state.Session) error) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := store.LoadOrEmpty(ctx, s)
	if err != nil {
		return err
	}
	registerHooks(loggerFromContext(ctx))
	initial := state.WithData(d)
	initial.AncestorDepth = c.config().View.AncestorDepth
	initial.DescendantDepth = c.config().View.DescendantDepth
	return fn(state.NewSession(initial, s, loggerFromContext(ctx)))
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	logger := loggerFromContext(ctx)
	registerHooks(logger)
	return pipeline.NewRunner(c.newCache(ctx, noCache), nil, logger)
}

// registerHooks logs every observability event when running at debug level.
func registerHooks(logger *log.Logger) {
	if logger.GetLevel() <= log.DebugLevel {
		observability.NewLogHooks(logger).Register()
	}
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	cfg := c.config().Cache
	logger := loggerFromContext(ctx)
	if noCache || !cfg.Enabled {
		return cache.NewNullCache()
	}
	if cfg.RedisURL != "" {
		rc, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err == nil {
			return rc
		}
		logger.Warn("redis cache unavailable, falling back to files", "error", err)
	}
	fc, err := cache.NewFileCache(cfg.Dir)
	if err != nil {
		logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Helpers
// =============================================================================

// resolveID finds the person an argument refers to: an exact id, or a
// unique id prefix as shown in `person list`.
func resolveID(d *family.FamilyData, arg string) (string, error) {
	if d.HasPerson(arg) {
		return arg, nil
	}
	var matches []string
	for _, p := range d.People {
		if arg != "" && strings.HasPrefix(p.ID, arg) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", apperr.New(apperr.ErrCodePersonNotFound, "no person with id %q", arg)
	default:
		return "", apperr.New(apperr.ErrCodeInvalidInput, "id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
