package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Simplici0/referral-roi/internal/db"
	"github.com/Simplici0/referral-roi/internal/licensing"
	"github.com/Simplici0/referral-roi/internal/logger"
	"github.com/Simplici0/referral-roi/internal/migrations"
	"github.com/Simplici0/referral-roi/internal/render"
	"github.com/Simplici0/referral-roi/internal/roi"
	"github.com/Simplici0/referral-roi/internal/seed"
	"github.com/Simplici0/referral-roi/internal/store"
)

type options struct {
	input    string
	asJSON   bool
	dbPath   string
	logLevel string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "roicalc",
		Short:         "Referral program ROI calculators",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.input, "input", "i", "-", "JSON or YAML input file, - for JSON on stdin")
	flags.BoolVar(&opts.asJSON, "json", false, "print the JSON response instead of tables")
	flags.StringVar(&opts.dbPath, "db", "", "line-item catalog database for licensing (default: built-in catalog)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	descriptions := map[roi.Kind]string{
		roi.Efficiency: "Annual labor cost saved by AI-assisted referral processing",
		roi.Revenue:    "Referral AI revenue impact",
		roi.Licensing:  "Total annual licensing expense",
	}
	for _, kind := range roi.Kinds {
		kind := kind
		root.AddCommand(&cobra.Command{
			Use:   string(kind),
			Short: descriptions[kind],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCalculator(cmd, opts, kind)
			},
		})
	}
	root.AddCommand(newFieldsCmd(opts))

	return root
}

func newFieldsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "fields <calculator>",
		Short:     "List the input fields a calculator requires",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(roi.Efficiency), string(roi.Revenue), string(roi.Licensing)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := roi.ParseKind(args[0])
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cmd.Context(), opts, kind)
			if err != nil {
				return err
			}
			for _, f := range roi.Fields(kind, catalog) {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func runCalculator(cmd *cobra.Command, opts *options, kind roi.Kind) error {
	doc, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cmd.Context(), opts, kind)
	if err != nil {
		return err
	}

	calc, err := roi.Run(kind, doc, catalog)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(calc)
	}
	return render.Write(out, calc.Sections()...)
}

// readInput loads a JSON or YAML document through viper. Keys are lowercased,
// which matches every request field name.
func readInput(stdin io.Reader, path string) (map[string]any, error) {
	v := viper.New()
	if path == "-" {
		v.SetConfigType("json")
		if err := v.ReadConfig(stdin); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return v.AllSettings(), nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("input %s: expected a .json, .yaml or .yml file", path)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return v.AllSettings(), nil
}

func loadCatalog(ctx context.Context, opts *options, kind roi.Kind) ([]licensing.LineItem, error) {
	if kind != roi.Licensing || opts.dbPath == "" {
		return licensing.DefaultCatalog(), nil
	}

	log := logger.New(opts.logLevel, "console")
	defer func() { _ = log.Sync() }()

	database, err := db.Open(ctx, opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer database.Close()

	if _, err := migrations.Up(ctx, database, log); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	stats, err := seed.Run(ctx, database, licensing.DefaultCatalog())
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	log.Debug("catalog ready", zap.String("path", opts.dbPath), zap.Int("inserts", stats.Inserts))

	return store.NewCatalog(database).Active(ctx)
}
