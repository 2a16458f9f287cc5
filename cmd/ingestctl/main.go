// ingestctl converts bank statement files to normalized transactions from
// the command line, without the HTTP server or the database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborbooks/statement-ingest/internal/domain/statements/export"
	"github.com/harborbooks/statement-ingest/internal/ingest/augment"
	"github.com/harborbooks/statement-ingest/internal/ingest/document"
	"github.com/harborbooks/statement-ingest/internal/ingest/pipeline"
	"github.com/harborbooks/statement-ingest/pkg/config"
	"github.com/harborbooks/statement-ingest/pkg/money"
)

var rootCmd = &cobra.Command{
	Use:   "ingestctl",
	Short: "Parse bank statement files into normalized transactions",
	Long: `ingestctl runs the statement ingestion pipeline on local files.
It handles CSV and spreadsheet statements locally; PDF statements and the
--augment flag need a configured remote classifier.`,
	SilenceUsage: true,
}

var convertFlags struct {
	output     string
	format     string
	augment    bool
	provider   string
	contextTag string
	currency   string
	quiet      bool
}

var convertCmd = &cobra.Command{
	Use:   "convert <statement-file>",
	Short: "Convert one statement file to JSON or CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFlags.output, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().StringVarP(&convertFlags.format, "format", "f", "json", "output format: json or csv")
	convertCmd.Flags().BoolVar(&convertFlags.augment, "augment", false, "send the document to the remote classifier first")
	convertCmd.Flags().StringVar(&convertFlags.provider, "provider", "", "remote provider hint")
	convertCmd.Flags().StringVar(&convertFlags.contextTag, "context", string(augment.TagExpense), "ingestion intent: expense or revenue")
	convertCmd.Flags().StringVar(&convertFlags.currency, "currency", money.DefaultCurrency, "currency code for the summary line")
	convertCmd.Flags().BoolVarP(&convertFlags.quiet, "quiet", "q", false, "suppress the summary line")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	doc, err := document.New(args[0], "", data)
	if err != nil {
		return err
	}

	gateway, err := buildGateway(cmd.Context(), logger)
	if err != nil {
		return err
	}
	if convertFlags.augment && gateway == nil {
		return fmt.Errorf("--augment needs CLASSIFIER_ENDPOINT or GEMINI_API_KEY configured")
	}

	result, err := pipeline.New(gateway, logger).Run(cmd.Context(), doc, pipeline.Options{
		ContextTag:   augment.ContextTag(convertFlags.contextTag),
		ProviderHint: convertFlags.provider,
		Augment:      convertFlags.augment,
	})
	if err != nil {
		return err
	}

	out := os.Stdout
	if convertFlags.output != "" {
		f, err := os.Create(convertFlags.output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", convertFlags.output, err)
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(convertFlags.format) {
	case "csv":
		err = export.WriteCSV(out, result.Transactions)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(result.Transactions)
	default:
		return fmt.Errorf("unknown format %q, want json or csv", convertFlags.format)
	}
	if err != nil {
		return err
	}

	if !convertFlags.quiet {
		s := money.Summarize(result.Transactions)
		fmt.Fprintf(os.Stderr, "%d transactions (%s source), debits %s, credits %s, net %s\n",
			s.Count, result.Source,
			money.Format(s.Debits, convertFlags.currency),
			money.Format(s.Credits, convertFlags.currency),
			money.Format(s.Net(), convertFlags.currency))
	}
	return nil
}

// buildGateway wires the remote classifier from the environment. Nil when
// nothing is configured.
func buildGateway(ctx context.Context, logger *slog.Logger) (*augment.Gateway, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var classifier augment.Classifier
	switch {
	case cfg.Ingest.Provider == "gemini" && cfg.Gemini.APIKey != "":
		classifier, err = augment.NewGeminiClassifier(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
	case cfg.Remote.Endpoint != "":
		client := &http.Client{Timeout: time.Duration(cfg.Remote.TimeoutSeconds+5) * time.Second}
		classifier = augment.NewHTTPClassifier(cfg.Remote.Endpoint, client)
	default:
		return nil, nil
	}
	timeout := time.Duration(cfg.Remote.TimeoutSeconds) * time.Second
	return augment.NewGateway(classifier, timeout, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
