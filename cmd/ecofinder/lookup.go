package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/usecase"
)

// LookupService is the subset of the suggestion service the lookup commands use
type LookupService interface {
	EnrichProduct(ctx context.Context, product *domain.ProductInfo) (*domain.ProductInfo, *domain.EnrichmentSteps, error)
	FindAlternatives(ctx context.Context, product *domain.ProductInfo) (*usecase.SuggestionResult, error)
}

// LookupCmd runs the pipeline against a product file
type LookupCmd struct {
	service LookupService
	openURL func(url string) error
	out     printer
}

// LookupInput holds input for both lookup commands
type LookupInput struct {
	Product *domain.ProductInfo
	JSON    bool
	Open    bool
}

// Enrich prints the enriched record and step report
func (l LookupCmd) Enrich(ctx context.Context, in LookupInput) error {
	enriched, steps, err := l.service.EnrichProduct(ctx, in.Product)
	if err != nil {
		return err
	}

	if in.JSON {
		return l.out.json(map[string]any{"product": enriched, "enrichmentSteps": steps})
	}

	l.out.product(enriched)
	l.out.steps(steps)
	return nil
}

// Alternatives prints suggestions and optionally opens the first search in a browser
func (l LookupCmd) Alternatives(ctx context.Context, in LookupInput) error {
	var spinner *pterm.SpinnerPrinter
	if !in.JSON {
		spinner = l.out.spinner("Looking for eco-friendly alternatives...")
	}
	result, err := l.service.FindAlternatives(ctx, in.Product)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			l.out.warning("Set it with: ecofinder credentials set %s <key>\n", domain.CredentialGenerative)
		}
		return err
	}

	if in.JSON {
		if err := l.out.json(result); err != nil {
			return err
		}
	} else {
		l.out.product(result.Product)
		l.out.steps(result.Steps)
		l.out.alternatives(result.Alternatives)
		l.out.info("Source: %s\n", result.Source)
	}

	if in.Open && len(result.Alternatives) > 0 {
		url := result.Alternatives[0].AmazonSearchURL
		if err := l.openURL(url); err != nil {
			l.out.warning("Could not open browser: %v\n", err)
			l.out.info("Search URL: %s\n", url)
		}
	}
	return nil
}

// readProduct decodes a product record from path, or stdin when path is "-"
func readProduct(path string, stdin io.Reader) (*domain.ProductInfo, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var product domain.ProductInfo
	if err := json.NewDecoder(r).Decode(&product); err != nil {
		return nil, fmt.Errorf("%w: decode product: %v", domain.ErrInvalidRequest, err)
	}
	return &product, nil
}

// --- Cobra wiring ---

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a product record",
	Long:  "Run zero-shot classification, entity extraction, keyword matching and image labeling on a product record",
	Args:  cobra.NoArgs,
	RunE:  runEnrich,
}

var alternativesCmd = &cobra.Command{
	Use:   "alternatives",
	Short: "Find eco-friendly alternatives",
	Long:  "Enrich a product record and ask the generative API for eco-friendly alternatives",
	Args:  cobra.NoArgs,
	RunE:  runAlternatives,
}

func init() {
	for _, c := range []*cobra.Command{enrichCmd, alternativesCmd} {
		c.Flags().StringP("file", "f", "", "Product JSON file, or - for stdin (required)")
		c.Flags().Bool("json", false, "Print raw JSON")
		_ = c.MarkFlagRequired("file")
	}
	alternativesCmd.Flags().Bool("open", false, "Open the first alternative's search page in a browser")
}

func lookupInput(cmd *cobra.Command) (LookupInput, error) {
	path, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")
	open, _ := cmd.Flags().GetBool("open")

	product, err := readProduct(path, cmd.InOrStdin())
	if err != nil {
		return LookupInput{}, err
	}
	return LookupInput{Product: product, JSON: asJSON, Open: open}, nil
}

func runLookup(cmd *cobra.Command, run func(LookupCmd, context.Context, LookupInput) error) error {
	in, err := lookupInput(cmd)
	if err != nil {
		return err
	}

	services, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer func() { _ = services.Close() }()

	return run(LookupCmd{service: services.Suggestions, openURL: browser.OpenURL, out: newPrinter(cmd.OutOrStdout())}, cmd.Context(), in)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	return runLookup(cmd, LookupCmd.Enrich)
}

func runAlternatives(cmd *cobra.Command, args []string) error {
	return runLookup(cmd, LookupCmd.Alternatives)
}
