package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/evanschultz/todomirror/internal/adapters/remote/rest"
	"github.com/evanschultz/todomirror/internal/adapters/storage/sqlite"
	"github.com/evanschultz/todomirror/internal/adapters/storage/tomlfile"
	"github.com/evanschultz/todomirror/internal/app"
	"github.com/evanschultz/todomirror/internal/config"
	"github.com/evanschultz/todomirror/internal/domain"
	"github.com/evanschultz/todomirror/internal/platform"
	"github.com/evanschultz/todomirror/internal/tui"
)

// version is stamped at build time.
var version = "dev"

// program is the part of tea.Program the launcher needs.
type program interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand(&cli{stdout: os.Stdout, stderr: os.Stderr})
	if err := fang.Execute(ctx, root, fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

// run executes the command tree with explicit args and streams.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(&cli{stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// cli holds the persistent flag values shared by every command.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	remoteURL  string
	prefsPath  string
	appName    string
	devMode    bool
}

func newRootCommand(c *cli) *cobra.Command {
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TODOMIRROR_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultApp := platform.DefaultAppName
	if envApp := strings.TrimSpace(os.Getenv("TODOMIRROR_APP_NAME")); envApp != "" {
		defaultApp = envApp
	}

	root := &cobra.Command{
		Use:           "todomirror",
		Short:         "Keep a local to-do list in sync with a remote collection",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          c.runTUI,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to config TOML")
	flags.StringVar(&c.remoteURL, "remote", "", "remote base URL")
	flags.StringVar(&c.prefsPath, "prefs", "", "path to the preference store")
	flags.StringVar(&c.appName, "app", defaultApp, "application name for config/data path resolution")
	flags.BoolVar(&c.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Open the interactive list",
			Args:  cobra.NoArgs,
			RunE:  c.runTUI,
		},
		c.listCommand(),
		&cobra.Command{
			Use:   "add <title...>",
			Short: "Create a task",
			Args:  cobra.MinimumNArgs(1),
			RunE:  c.runAdd,
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Flip a task between pending and completed",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runToggle,
		},
		&cobra.Command{
			Use:   "rename <id> <title...>",
			Short: "Change a task title",
			Args:  cobra.MinimumNArgs(2),
			RunE:  c.runRename,
		},
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"delete"},
			Short:   "Delete a task",
			Args:    cobra.ExactArgs(1),
			RunE:    c.runDelete,
		},
		&cobra.Command{
			Use:       "theme [dark|light|toggle]",
			Short:     "Show or change the dark mode preference",
			Args:      cobra.MaximumNArgs(1),
			ValidArgs: []string{"dark", "light", "toggle"},
			RunE:      c.runTheme,
		},
		&cobra.Command{
			Use:   "paths",
			Short: "Print resolved config and data paths",
			Args:  cobra.NoArgs,
			RunE:  c.runPaths,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "todomirror %s\n", version)
				return err
			},
		},
	)
	return root
}

func (c *cli) listCommand() *cobra.Command {
	var filter, format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks from the remote collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runList(cmd, filter, format)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "view: all, completed or pending (default from config)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or markdown")
	return cmd
}

// runtime bundles the resolved configuration and opened adapters for one command.
type runtime struct {
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
	remote     *rest.Client
	prefs      app.PreferenceStore
	closePrefs func() error
	exec       *app.Executor
}

// open resolves paths and config, then wires the logger, preference store and remote client.
func (c *cli) open(command string) (*runtime, error) {
	appName := strings.TrimSpace(c.appName)
	if appName == "" {
		appName = platform.DefaultAppName
	}
	paths, err := platform.DefaultPathsWithOptions(platform.Options{AppName: appName, DevMode: c.devMode})
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(c.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TODOMIRROR_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}

	defaults := config.Default(paths.DBPath)
	cfg, err := config.Load(configPath, defaults)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if remoteURL := firstNonEmpty(c.remoteURL, os.Getenv("TODOMIRROR_REMOTE_URL")); remoteURL != "" {
		cfg.Remote.BaseURL = remoteURL
	}
	if prefsPath := firstNonEmpty(c.prefsPath, os.Getenv("TODOMIRROR_PREFS_PATH")); prefsPath != "" {
		cfg.Preferences.Path = prefsPath
	} else if cfg.Preferences.Backend == config.BackendTOML && cfg.Preferences.Path == defaults.Preferences.Path {
		cfg.Preferences.Path = paths.PrefsPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger, err := newRuntimeLogger(c.stderr, appName, c.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	logger.Info("startup configuration resolved", "app", appName, "dev_mode", c.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir)
	logger.Info("configuration loaded", "config_path", configPath, "remote", cfg.Remote.BaseURL, "prefs_backend", cfg.Preferences.Backend, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	rt := &runtime{paths: paths, configPath: configPath, cfg: cfg, logger: logger}
	rt.prefs, rt.closePrefs, err = openPreferenceStore(cfg.Preferences)
	if err != nil {
		logger.Error("preference store open failed", "backend", cfg.Preferences.Backend, "path", cfg.Preferences.Path, "err", err)
		_ = logger.Close()
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	logger.Info("preference store ready", "backend", cfg.Preferences.Backend, "path", cfg.Preferences.Path)

	rt.remote, err = rest.New(cfg.Remote.BaseURL,
		rest.WithCollectionPath(cfg.Remote.CollectionPath),
		rest.WithLogger(logger),
	)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("configure remote: %w", err)
	}
	rt.exec = app.NewExecutor(rt.remote,
		app.WithLogger(logger),
		app.WithPreferenceStore(rt.prefs),
	)
	return rt, nil
}

// Close releases the preference store and the dev log file.
func (rt *runtime) Close() error {
	var errs []error
	if rt.closePrefs != nil {
		if err := rt.closePrefs(); err != nil {
			rt.logger.Warn("preference store close failed", "path", rt.cfg.Preferences.Path, "err", err)
			errs = append(errs, err)
		}
	}
	if err := rt.logger.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close runtime log sink: %w", err))
	}
	return errors.Join(errs...)
}

// syncer returns a fresh facade over the runtime executor.
func (rt *runtime) syncer(filter domain.Filter) *app.Syncer {
	return app.NewSyncer(rt.exec, app.WithInitialFilter(filter))
}

func openPreferenceStore(cfg config.PreferencesConfig) (app.PreferenceStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendTOML:
		store, err := tomlfile.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		repo, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}
}

// withRuntime opens a runtime for one command and logs the command flow around fn.
func (c *cli) withRuntime(cmd *cobra.Command, name string, fn func(context.Context, *runtime) error) error {
	rt, err := c.open(name)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(c.stderr, "warning: %v\n", closeErr)
		}
	}()

	ctx := app.WithOrigin(cmd.Context(), app.OriginCLI)
	rt.logger.Info("command flow start", "command", name)
	if err := fn(ctx, rt); err != nil {
		rt.logger.Error("command flow failed", "command", name, "err", err)
		return fmt.Errorf("run %s command: %w", name, err)
	}
	rt.logger.Info("command flow complete", "command", name)
	return nil
}

func (c *cli) runTUI(cmd *cobra.Command, _ []string) error {
	rt, err := c.open("tui")
	if err != nil {
		return err
	}
	// The list view owns the terminal; events go to the dev-file sink only.
	rt.logger.SetConsoleEnabled(false)
	defer func() {
		_ = rt.Close()
	}()

	m := tui.NewModel(rt.exec,
		tui.WithContext(cmd.Context()),
		tui.WithInitialFilter(rt.cfg.DefaultFilter()),
		tui.WithConfirmDelete(rt.cfg.UI.ConfirmDelete),
	)
	rt.logger.Info("starting tui program loop", "remote", rt.remote.BaseURL())
	if _, err := programFactory(m).Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

func (c *cli) runList(cmd *cobra.Command, rawFilter, format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "text", "json", "markdown", "md":
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return c.withRuntime(cmd, "list", func(ctx context.Context, rt *runtime) error {
		filter := rt.cfg.DefaultFilter()
		if strings.TrimSpace(rawFilter) != "" {
			parsed, err := domain.ParseFilter(rawFilter)
			if err != nil {
				return err
			}
			filter = parsed
		}
		s := rt.syncer(filter)
		if err := s.Load(ctx); err != nil {
			return err
		}
		tasks := s.Filter(filter)
		out := cmd.OutOrStdout()

		switch format {
		case "json":
			return writeTasksJSON(out, tasks)
		case "markdown", "md":
			if err := s.LoadPreferences(ctx); err != nil {
				rt.logger.Warn("preferences unavailable, using light style", "err", err)
			}
			return writeTasksMarkdown(out, tasks, filter, s.DarkMode())
		default:
			return writeTasksText(out, tasks, filter)
		}
	})
}

func (c *cli) runAdd(cmd *cobra.Command, args []string) error {
	return c.withRuntime(cmd, "add", func(ctx context.Context, rt *runtime) error {
		s := rt.syncer(domain.FilterAll)
		if err := s.Create(ctx, strings.Join(args, " ")); err != nil {
			return err
		}
		tasks := s.Tasks()
		created := tasks[len(tasks)-1]
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "created #%d %s\n", created.ID, created.Title)
		return err
	})
}

func (c *cli) runToggle(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	return c.withRuntime(cmd, "toggle", func(ctx context.Context, rt *runtime) error {
		s := rt.syncer(domain.FilterAll)
		if err := s.Load(ctx); err != nil {
			return err
		}
		if err := s.Toggle(ctx, id); err != nil {
			return err
		}
		task, _ := s.State().TaskByID(id)
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "#%d %s\n", task.ID, taskStatus(task))
		return err
	})
}

func (c *cli) runRename(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	title := strings.Join(args[1:], " ")
	return c.withRuntime(cmd, "rename", func(ctx context.Context, rt *runtime) error {
		s := rt.syncer(domain.FilterAll)
		if err := s.Load(ctx); err != nil {
			return err
		}
		task, ok := s.State().TaskByID(id)
		if !ok {
			return fmt.Errorf("task %d: %w", id, app.ErrTaskNotFound)
		}
		s.BeginEdit(id, task.Title)
		s.UpdateEdit(title)
		if err := s.SaveEdit(ctx, id); err != nil {
			return err
		}
		renamed, _ := s.State().TaskByID(id)
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "renamed #%d %s\n", renamed.ID, renamed.Title)
		return err
	})
}

func (c *cli) runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	return c.withRuntime(cmd, "rm", func(ctx context.Context, rt *runtime) error {
		if err := rt.syncer(domain.FilterAll).Delete(ctx, id); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d\n", id)
		return err
	})
}

func (c *cli) runTheme(cmd *cobra.Command, args []string) error {
	mode := ""
	if len(args) == 1 {
		mode = strings.ToLower(strings.TrimSpace(args[0]))
	}
	switch mode {
	case "", "dark", "light", "toggle":
	default:
		return fmt.Errorf("unknown theme %q, want dark, light or toggle", args[0])
	}
	return c.withRuntime(cmd, "theme", func(ctx context.Context, rt *runtime) error {
		s := rt.syncer(domain.FilterAll)
		if err := s.LoadPreferences(ctx); err != nil {
			return err
		}
		switch {
		case mode == "toggle", mode == "dark" && !s.DarkMode(), mode == "light" && s.DarkMode():
			if err := s.ToggleDarkMode(ctx); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), themeName(s.DarkMode()))
		return err
	})
}

func (c *cli) runPaths(cmd *cobra.Command, _ []string) error {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{AppName: c.appName, DevMode: c.devMode})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "app: %s\n", paths.AppName)
	_, _ = fmt.Fprintf(out, "dev_mode: %t\n", c.devMode)
	_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
	_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
	_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
	_, _ = fmt.Fprintf(out, "prefs: %s\n", paths.PrefsPath)
	return nil
}

// listedTask is the JSON shape printed by list --format json.
type listedTask struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func writeTasksJSON(out io.Writer, tasks []domain.Task) error {
	items := make([]listedTask, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, listedTask{ID: task.ID, Title: task.Title, Completed: task.Completed})
	}
	encoded, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks json: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

func writeTasksText(out io.Writer, tasks []domain.Task, filter domain.Filter) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintf(out, "no %s tasks\n", filter)
		return err
	}
	for _, task := range tasks {
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}
		if _, err := fmt.Fprintf(out, "%s %d\t%s\n", check, task.ID, task.Title); err != nil {
			return err
		}
	}
	return nil
}

// tasksMarkdown renders tasks as a GitHub-style checklist.
func tasksMarkdown(tasks []domain.Task, filter domain.Filter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tasks (%s)\n\n", filter)
	if len(tasks) == 0 {
		b.WriteString("_Nothing here._\n")
		return b.String()
	}
	for _, task := range tasks {
		check := " "
		if task.Completed {
			check = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s `#%d`\n", check, task.Title, task.ID)
	}
	return b.String()
}

func writeTasksMarkdown(out io.Writer, tasks []domain.Task, filter domain.Filter, darkMode bool) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(themeName(darkMode)),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("configure markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(tasksMarkdown(tasks, filter))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

func parseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	return id, nil
}

func taskStatus(task domain.Task) string {
	if task.Completed {
		return "completed"
	}
	return "pending"
}

func themeName(darkMode bool) string {
	if darkMode {
		return "dark"
	}
	return "light"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
