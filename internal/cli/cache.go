package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hextile/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local pattern and artifact cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached patterns and artifacts",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return clearCache() },
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show how many entries the cache holds",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, dir, err := openFileCache()
				if err != nil || fc == nil {
					return err
				}
				n, size, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("scan cache: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%d entries, %s\n", dir, n, humanize.Bytes(uint64(size)))
				return nil
			},
		},
	)
	return cmd
}

// openFileCache opens the CLI cache directory. It returns a nil cache
// when the directory was never created.
func openFileCache() (*cache.FileCache, string, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, "", fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil, dir, nil
	}
	fc, err := cache.NewFileCache(dir)
	return fc, dir, err
}

func clearCache() error {
	fc, dir, err := openFileCache()
	if err != nil || fc == nil {
		return err
	}
	count, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %d cached entries", count)
	printDetail("Directory: %s", dir)
	return nil
}
