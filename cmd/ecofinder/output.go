package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/ecofinder/backend/internal/domain"
)

// printer renders command output to one writer
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer {
	if w == nil {
		w = os.Stdout
	}
	return printer{w: w}
}

func (p printer) success(format string, args ...any) {
	pterm.Success.WithWriter(p.w).Printf(format, args...)
}

func (p printer) info(format string, args ...any) {
	pterm.Info.WithWriter(p.w).Printf(format, args...)
}

func (p printer) warning(format string, args ...any) {
	pterm.Warning.WithWriter(p.w).Printf(format, args...)
}

func (p printer) println(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

func (p printer) spinner(text string) *pterm.SpinnerPrinter {
	spinner, err := pterm.DefaultSpinner.WithWriter(p.w).WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return nil
	}
	return spinner
}

func (p printer) table(rows pterm.TableData) {
	_ = pterm.DefaultTable.WithWriter(p.w).WithHasHeader().WithData(rows).Render()
}

func (p printer) json(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	p.println(string(raw))
	return nil
}

func (p printer) product(product *domain.ProductInfo) {
	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Title", product.Title})
	rows = append(rows, []string{"Category", valueOrDash(product.Category)})
	rows = append(rows, []string{"Eco attributes", valueOrDash(strings.Join(product.EcoAttributes, ", "))})
	if len(product.ImageLabels) > 0 {
		rows = append(rows, []string{"Image labels", strings.Join(product.ImageLabels, ", ")})
	}
	if product.CategoryScores != nil && len(product.CategoryScores.Scores) > 0 {
		rows = append(rows, []string{"Top score", fmt.Sprintf("%.2f", product.CategoryScores.Scores[0])})
	}
	p.table(rows)
}

func (p printer) steps(steps *domain.EnrichmentSteps) {
	rows := pterm.TableData{{"Step", "Succeeded"}}
	rows = append(rows, []string{"zero-shot", fmt.Sprintf("%t", steps.ZeroShot)})
	rows = append(rows, []string{"ner", fmt.Sprintf("%t", steps.NER)})
	rows = append(rows, []string{"keywords", fmt.Sprintf("%t", steps.Keywords)})
	rows = append(rows, []string{"vision", fmt.Sprintf("%t", steps.Vision)})
	p.table(rows)

	for _, note := range steps.Notes {
		p.info("%s\n", note)
	}
}

func (p printer) alternatives(alternatives []domain.AlternativeSuggestion) {
	if len(alternatives) == 0 {
		p.warning("No alternatives found\n")
		return
	}

	rows := pterm.TableData{{"#", "Name", "Price", "Eco features", "Search"}}
	for i, alt := range alternatives {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			alt.Name,
			valueOrDash(alt.EstimatedPrice),
			valueOrDash(strings.Join(alt.EcoFeatures, ", ")),
			alt.AmazonSearchURL,
		})
	}
	p.table(rows)
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
