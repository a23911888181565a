package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/senyabanana/licitaciones/internal/cpv"
	"github.com/senyabanana/licitaciones/internal/db"
	"github.com/senyabanana/licitaciones/internal/filters"
	"github.com/senyabanana/licitaciones/internal/logger"
	"github.com/senyabanana/licitaciones/internal/models"
	"github.com/senyabanana/licitaciones/internal/nuts"
	"github.com/senyabanana/licitaciones/internal/repository"
	"github.com/senyabanana/licitaciones/internal/router/config"
	"github.com/senyabanana/licitaciones/internal/services"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	cpvPath    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "licitaciones",
		Short:         "Work with public tenders and the CPV classification from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", ".", "Directory with app.env")
	root.PersistentFlags().StringVar(&opts.cpvPath, "cpv", "", "CPV dictionary JSON file (embedded table when empty)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	root.AddCommand(
		newDescribeCmd(opts),
		newSearchCmd(opts),
		newRegionsCmd(),
		newExportCmd(opts),
	)
	return root
}

func (o *rootOptions) logger(w io.Writer) zerolog.Logger {
	return logger.New(logger.Options{Level: o.logLevel, Format: "console", Writer: w})
}

func (o *rootOptions) cpvService(cmd *cobra.Command) *services.CPVService {
	return services.NewCPVService(cpv.NewCache(cpv.FileSource(o.cpvPath), o.logger(cmd.ErrOrStderr())))
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe CODE...",
		Short: "Print the label of one or more CPV codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.cpvService(cmd)
			for _, code := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, svc.Describe(code))
			}
			return nil
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search TEXT",
		Short: "Search CPV categories by label or code prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches := opts.cpvService(cmd).Search(strings.Join(args, " "), limit)
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.Code, m.Description)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results (0 = all)")
	return cmd
}

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List NUTS regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range nuts.List() {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Code, r.Level, r.Name)
			}
			return tw.Flush()
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var rawQuery, out, fixtures string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matching tenders to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := opts.logger(cmd.ErrOrStderr())
			ctx := cmd.Context()

			cache := cpv.NewCache(cpv.FileSource(opts.cpvPath), l)
			if err := cache.Prime(); err != nil {
				return fmt.Errorf("cannot load cpv dictionary: %w", err)
			}

			loc := time.UTC
			var repo repository.LicitacionRepository
			if fixtures != "" {
				rows, err := loadFixtures(fixtures)
				if err != nil {
					return err
				}
				memory := repository.NewMemoryLicitacionRepository(rows)
				memory.CPVLabel = cache.Get().Describe
				repo = memory
			} else {
				cfg, err := config.LoadConfig(opts.configPath)
				if err != nil {
					return fmt.Errorf("cannot load config: %w", err)
				}
				if loc, err = cfg.Location(); err != nil {
					return err
				}
				pool, err := db.InitDb(ctx, cfg, l)
				if err != nil {
					return err
				}
				defer pool.Close()
				repo = repository.NewPostgresLicitacionRepository(pool)
			}

			svc := services.NewLicitacionService(repo, cache, l, loc)

			if out == "" {
				out = services.ExportFilename(svc.Now().In(loc))
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			count, err := svc.ExportCSV(ctx, filters.ParseQuery(rawQuery), nil, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", count, out)
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&rawQuery, "query", "", "Filter query string, e.g. \"busqueda=obras&province=ES52\"")
	cmd.Flags().StringVar(&out, "out", "", "Output file (licitaciones-YYYY-MM-DD.csv when empty)")
	cmd.Flags().StringVar(&fixtures, "fixtures", "", "JSON file with rows to export instead of the database")
	return cmd
}

// loadFixtures читает строки тендеров из JSON-файла.
func loadFixtures(path string) ([]models.Licitacion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var rows []models.Licitacion
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return rows, nil
}
