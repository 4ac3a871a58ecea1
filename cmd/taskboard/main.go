package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/api"
	"github.com/pbaille/taskboard/internal/config"
	"github.com/pbaille/taskboard/internal/contrib"
	"github.com/pbaille/taskboard/internal/domain"
	"github.com/pbaille/taskboard/internal/seed"
	"github.com/pbaille/taskboard/internal/store"
	"github.com/pbaille/taskboard/internal/tracker"
	"github.com/pbaille/taskboard/internal/ui"
)

var (
	configPath string
	seedPath   string
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "Personal task tracker with a contribution graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./taskboard.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "YAML fixture to load on startup")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(tasksCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is the wiring shared by every command
type app struct {
	cfg     *config.Config
	store   store.Store
	tracker *tracker.Tracker
}

func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if seedPath != "" {
		cfg.Seed.File = seedPath
	}

	if cfg.Store.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	s, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	tr := tracker.New(s)
	if cfg.Seed.DefaultTags {
		n, err := seed.EnsureDefaultTags(tr)
		if err != nil {
			s.Close()
			return nil, err
		}
		if n > 0 {
			log.Printf("Created %d default tags", n)
		}
	}
	if cfg.Seed.File != "" {
		f, err := seed.LoadFile(tr, cfg.Seed.File, time.Now())
		if err != nil {
			s.Close()
			return nil, err
		}
		log.Printf("Loaded %d tags and %d tasks from %s", len(f.Tags), len(f.Tasks), cfg.Seed.File)
	}

	return &app{cfg: cfg, store: s, tracker: tr}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return api.New(a.tracker, a.cfg).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (overrides server.addr)")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.tracker.Statistics()
			if err != nil {
				return err
			}
			ui.RenderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func graphCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the contribution graph and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if days == 0 {
				days = a.cfg.Contributions.DefaultDays
			}
			if days < 1 || days > a.cfg.Contributions.MaxDays {
				return fmt.Errorf("--days must be between 1 and %d", a.cfg.Contributions.MaxDays)
			}

			res, err := a.tracker.Contributions(contrib.Query{Days: days})
			if err != nil {
				return err
			}
			ui.RenderGraph(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "number of days to show (default contributions.default_days)")
	return cmd
}

func tasksCmd() *cobra.Command {
	var (
		status   string
		archived bool
		tags     []string
		page     int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := aggregate.ParseStatus(status)
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = a.cfg.Pagination.DefaultLimit
			}

			all, err := a.tracker.ListTags()
			if err != nil {
				return err
			}
			byID := make(map[string]domain.Tag, len(all))
			ids := make(map[string]string, len(all))
			for _, t := range all {
				byID[t.ID] = t
				ids[strings.ToLower(t.Name)] = t.ID
			}

			// tags may be given by name or id
			var tagIDs []string
			for _, tag := range tags {
				if id, ok := ids[strings.ToLower(tag)]; ok {
					tag = id
				}
				tagIDs = append(tagIDs, tag)
			}

			result, err := a.tracker.ListTasks(aggregate.Filter{
				Status:   st,
				Archived: archived,
				Tags:     tagIDs,
				Page:     page,
				Limit:    limit,
			})
			if err != nil {
				return err
			}
			ui.RenderTasks(cmd.OutOrStdout(), result, byID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "all", "all, active or completed")
	cmd.Flags().BoolVar(&archived, "archived", false, "list archived tasks instead")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "filter by tag name or id (repeatable)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "tasks per page (default pagination.default_limit)")
	return cmd
}
