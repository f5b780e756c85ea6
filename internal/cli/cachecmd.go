package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uldpack/internal/config"
	"github.com/matzehuels/uldpack/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the solution cache",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	info := &cobra.Command{
		Use:   "info",
		Short: "Show the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return err
			}
			printKV("backend", "%s", cfg.Cache.Backend)
			printKV("dir", "%s", dir)
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printKV("status", "empty")
			}
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached solutions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.(*cache.FileCache).Clear(); err != nil {
				return err
			}
			printSuccess("cache cleared")
			return nil
		},
	}

	cmd.AddCommand(info)
	cmd.AddCommand(clear)
	return cmd
}
