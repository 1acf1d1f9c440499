package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"voxreel/internal/background"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the background asset cache",
	}
	cacheCmd.AddCommand(newCacheLsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheLsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List cached background assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := background.OpenCache(cfg.Paths.CacheDir)
			if err != nil {
				return err
			}
			defer cache.Close()

			entries, err := cache.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cache is empty.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			var total uint64
			for _, entry := range entries {
				size := "-"
				if info, statErr := os.Stat(entry.Path); statErr == nil {
					size = humanize.Bytes(uint64(info.Size()))
					total += uint64(info.Size())
				}
				rows = append(rows, []string{
					entry.Term,
					string(entry.Kind),
					entry.Source,
					size,
					humanize.Time(entry.CreatedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Term", "Kind", "Source", "Size", "Fetched"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
			fmt.Fprintf(out, "%d assets, %s\n", len(entries), humanize.Bytes(total))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached background assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := background.OpenCache(cfg.Paths.CacheDir)
			if err != nil {
				return err
			}
			defer cache.Close()

			removed, err := cache.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached assets.\n", removed)
			return nil
		},
	}
}
