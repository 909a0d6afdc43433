package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/chatkit/internal/app"
	"github.com/zhubert/chatkit/internal/config"
	"github.com/zhubert/chatkit/internal/logger"
	"github.com/zhubert/chatkit/internal/notification"
)

var (
	debugMode             bool
	quietMode             bool
	configPath            string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "chatkit",
	Short: "Terminal chat with a voice-note compose bar",
	Long: `chatkit runs a chat conversation in the terminal. Messages are grouped into
day sections, older history loads as you scroll up, and the compose bar takes
text, pasted images and voice recordings.

The conversation is a local simulation: peers answer after a short delay and
any message starting with /fail is rejected so the error path can be tried.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.chatkit/config.yaml)")
}

// applyLogLevel decides the log level. Flags win over the config file and
// --quiet wins over --debug.
func applyLogLevel(cfg *config.Config) {
	switch {
	case quietMode:
		logger.SetDebug(false)
	case debugMode:
		logger.SetDebug(true)
	default:
		logger.SetDebug(cfg.Debug())
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("chatkit %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("chatkit %s\n", version)
}

// loadConfig reads the --config file, or the default one.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadAndMerge(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	applyLogLevel(cfg)
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = logger.DefaultLogPath
	}
	if err := logger.Init(logPath); err != nil {
		return err
	}
	defer logger.Close()

	deps, err := app.DefaultDeps(cfg, notification.SendFailed)
	if err != nil {
		return fmt.Errorf("error preparing media cache: %w", err)
	}

	m := app.New(cfg, version, deps)
	defer m.Close()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
