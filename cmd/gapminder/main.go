package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gapminder/internal"
	"gapminder/internal/chart"
	"gapminder/internal/config"
	"gapminder/internal/engine"
	"gapminder/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	dataDir string
	loader  *engine.Loader
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "gapminder",
		Short:         "Load, inspect and export the unified population / life expectancy / GNI table",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory holding the source tables (overrides DATA_DIR)")

	rootCmd.AddCommand(
		newCountriesCmd(a),
		newStatusCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	a.cfg = cfg
	a.loader = engine.NewLoader(engine.Sources{
		Population:     cfg.Data.PopulationPath(),
		LifeExpectancy: cfg.Data.LifeExpectancyPath(),
		GNIPerCapita:   cfg.Data.GNIPath(),
	}, internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)))
	return nil
}

func newCountriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List distinct countries; the default selection is marked with *",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			countries := ds.Countries()
			defaults := map[string]bool{}
			for _, c := range chart.DefaultSelection(countries, a.cfg.Data.DefaultCountries) {
				defaults[c] = true
			}
			out := cmd.OutOrStdout()
			for _, c := range countries {
				mark := " "
				if defaults[c] {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\n", mark, c)
			}
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load the sources and print join diagnostics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ds.Diagnostics)
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print per-year aggregates of the complete rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), ds)
		},
	}
}

func writeSummary(w io.Writer, ds *engine.Dataset) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "year\tcountries\tpopulation\tlife exp (weighted)\tmedian GNI\t")
	for _, s := range ds.Store.Summarize() {
		p.Fprintf(tw, "%d\t%d\t%.0f\t%.1f\t%.0f\t\n", s.Year, s.Countries, s.TotalPopulation, s.MeanLifeExpectancy, s.MedianGNIPerCapita)
	}
	return tw.Flush()
}

func newExportCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the unified table as arrow, xlsx or csv",
		Long: `Write the unified table to a file or stdout.

Example: gapminder export --format xlsx --out gapminder.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			switch strings.ToLower(format) {
			case "arrow":
				return ds.Store.WriteArrow(w)
			case "xlsx":
				return ds.Store.WriteXLSX(w)
			case "csv":
				return ds.Store.WriteCSV(w)
			default:
				return errors.InvalidInput(fmt.Sprintf("unsupported format %q (use arrow, xlsx or csv)", format))
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Output format: arrow, xlsx or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}
