package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/chatkit/internal/logger"
	"github.com/zhubert/chatkit/internal/media"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove log files and cached thumbnails",
	Long: `Removes chatkit debug logs and every file in the media cache directory.
Resolved attachment URLs that point into the cache stop working afterwards.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(os.Stdin)
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(input io.Reader) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cacheDir := cfg.Media.CacheDir

	fmt.Println("This will clean:")
	fmt.Println("  - All chatkit log files in /tmp")
	fmt.Printf("  - Cached media in %s\n", cacheDir)

	if !skipConfirm {
		if !confirm(input, "Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}
	mediaCleared, err := media.ClearCache(cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing media cache: %v\n", err)
	}

	if logsCleared == 0 && mediaCleared == 0 {
		fmt.Println("Nothing to clean.")
		return nil
	}

	fmt.Println()
	fmt.Println("Cleaned:")
	if logsCleared > 0 {
		fmt.Printf("  - %d log file(s) removed\n", logsCleared)
	}
	if mediaCleared > 0 {
		fmt.Printf("  - %d cached media file(s) removed\n", mediaCleared)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
