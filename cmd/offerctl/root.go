package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"offer-match/internal/config"
	"offer-match/internal/offer/catalog"
	"offer-match/internal/offer/model"
	"offer-match/internal/offer/service"
)

type rootOpts struct {
	catalog  string
	rules    string
	logLevel string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:           "offerctl",
		Short:         "Match insurance formulas against a tariff catalog and score coverage proximity",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.catalog, "catalog", os.Getenv("CATALOG_SOURCE"), "catalog file (.json/.csv/.xls/.xlsx) or http(s) URL; empty for the embedded catalog")
	root.PersistentFlags().StringVar(&opts.rules, "rules", os.Getenv("RULES_FILE"), "YAML file overriding matching rules")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "catalog load timeout")

	root.AddCommand(
		newParseCmd(),
		newScoreCmd(),
		newMatchCmd(opts),
		newRankCmd(opts),
	)
	return root
}

func (o *rootOpts) logger() zerolog.Logger {
	return config.SetupLogger(config.Config{LogLevel: o.logLevel})
}

// engine собирает матчер и загружает каталог так же, как сервер.
func (o *rootOpts) engine(ctx context.Context) (*service.Matcher, *catalog.Snapshot, error) {
	logger := o.logger()
	rules, err := service.LoadRules(o.rules)
	if err != nil {
		return nil, nil, err
	}
	store := catalog.NewStore(catalog.NewSource(o.catalog, &http.Client{Timeout: o.timeout}), o.timeout, logger)
	snap := store.Snapshot(ctx)
	if snap.Degraded {
		logger.Warn().Str("error", snap.Error).Msg("using embedded catalog")
	}
	return service.NewMatcher(rules, logger), snap, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse VALUE...",
		Short: "Parse raw guarantee strings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]model.GuaranteeValue, 0, len(args))
			for _, a := range args {
				out = append(out, service.ParseValue(a))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score NEED CONTRACT",
		Short: "Score how close a contract value is to a stated need",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), service.Score(args[0], args[1]))
		},
	}
}

func newMatchCmd(opts *rootOpts) *cobra.Command {
	var insurer, label string
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Resolve an insurer + formula label to a catalog record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, snap, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m.Resolve(model.MatchQuery{Insurer: insurer, FormulaLabel: label}, snap.Records))
		},
	}
	cmd.Flags().StringVar(&insurer, "insurer", "", "insurer name")
	cmd.Flags().StringVar(&label, "label", "", "formula/level label")
	_ = cmd.MarkFlagRequired("insurer")
	return cmd
}

// rankInput файл запроса ранжирования (YAML или JSON).
type rankInput struct {
	Needs  map[string]string `yaml:"needs"`
	Offers []struct {
		Insurer string  `yaml:"insurer"`
		Formula string  `yaml:"formula"`
		Price   float64 `yaml:"price"`
	} `yaml:"offers"`
}

func readRankInput(path string) (service.Needs, []model.Offer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "read %s", path)
	}
	var in rankInput
	if err := yaml.Unmarshal(b, &in); err != nil {
		return nil, nil, eris.Wrapf(err, "parse %s", path)
	}
	if len(in.Offers) == 0 {
		return nil, nil, eris.Errorf("%s: no offers", path)
	}
	offers := make([]model.Offer, 0, len(in.Offers))
	for _, o := range in.Offers {
		offers = append(offers, model.Offer{Insurer: o.Insurer, Formula: o.Formula, Price: o.Price})
	}
	return service.Needs(in.Needs), offers, nil
}

func newRankCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "rank REQUEST_FILE",
		Short: "Rank offers from a YAML/JSON request file by aggregate proximity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			needs, offers, err := readRankInput(args[0])
			if err != nil {
				return err
			}
			m, snap, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m.RankOffers(needs, offers, snap.Records))
		},
	}
}
