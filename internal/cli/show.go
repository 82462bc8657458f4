package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/internal/headlines"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var (
		country  string
		page     int
		pageSize int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print one page of annotated headlines",
		Long: `Fetch the country's feed, classify one page and print it.

Unknown countries fall back to the default country.

Examples:
  headlines show                               # Default country, first page
  headlines show --country Germany --page 2    # Second page for Germany
  headlines show --country India --json        # JSON output`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			if country == "" {
				country = a.Countries.Default()
			}
			if pageSize <= 0 {
				pageSize = opts.cfg.Page.Size
			}

			res := a.Aggregator.Page(cmd.Context(), country, page, pageSize)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return renderPage(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&country, "country", "c", "", "country name (default: registry default)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "1-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "headlines per page (default: page.size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func renderPage(w io.Writer, res headlines.PageResult) error {
	fmt.Fprintf(w, "%s, page %d (%d headlines in feed)\n\n", res.Country, res.Page, res.Total)
	if len(res.Headlines) == 0 {
		fmt.Fprintln(w, "No headlines available.")
		return nil
	}

	rows := make([][]string, 0, len(res.Headlines))
	for _, h := range res.Headlines {
		rows = append(rows, []string{
			strconv.Itoa(h.Index),
			h.Headline,
			colorize(h.Sentiment),
			strconv.FormatFloat(h.Confidence, 'f', 2, 64),
		})
	}
	if err := renderTable(w, []string{"#", "Headline", "Sentiment", "Confidence"}, rows); err != nil {
		return err
	}

	if res.HasMore {
		fmt.Fprintf(w, "\nMore available: --page %d\n", res.Page+1)
	}
	return nil
}

func colorize(c domain.Category) string {
	switch c {
	case domain.Positive:
		return color.GreenString(string(c))
	case domain.Negative:
		return color.RedString(string(c))
	default:
		return string(c)
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return table.Render()
}
