package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zhubert/chatkit/internal/config"
	"github.com/zhubert/chatkit/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set your display name, theme and notification preferences",
	Long: `Runs a short interactive form and writes the answers to the config file.
Existing settings not covered by the form are kept.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("error locating config: %w", err)
		}
		path = p
	}

	raw, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if raw == nil {
		raw = &config.Config{}
	}

	answers := setupAnswers(config.Merge(raw, config.DefaultConfig()))
	if err := ui.NewSetupForm(&answers).Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := applySetup(raw, answers); err != nil {
		return err
	}
	if err := config.Save(path, raw); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

// setupAnswers pre-fills the form from the effective config.
func setupAnswers(cfg *config.Config) ui.SetupAnswers {
	return ui.SetupAnswers{
		Name:          cfg.User.Name,
		Theme:         cfg.Theme(),
		PageSize:      strconv.Itoa(cfg.PageSize()),
		Notifications: cfg.Notifications(),
	}
}

// applySetup writes the answers into the on-disk config. A user without an
// id gets a fresh one so their messages stay attributed after a rename.
func applySetup(cfg *config.Config, a ui.SetupAnswers) error {
	pageSize, err := strconv.Atoi(strings.TrimSpace(a.PageSize))
	if err != nil {
		return fmt.Errorf("invalid page size %q: %w", a.PageSize, err)
	}

	cfg.User.Name = strings.TrimSpace(a.Name)
	if cfg.User.ID == "" {
		cfg.User.ID = uuid.NewString()
	}
	cfg.UI.Theme = a.Theme
	cfg.Pagination.PageSize = &pageSize
	notify := a.Notifications
	cfg.NotificationsEnabled = &notify
	return nil
}
