package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/uniclear/clearance/pkg/cli/internal/output"
	"github.com/uniclear/clearance/pkg/status"
)

var statusCategory string

var statusCmd = &cobra.Command{
	Use:   "status [CODE...]",
	Short: "Explain authority status codes",
	Long: `Explain authority status codes.

With no arguments every registered code is listed, grouped by category.
With codes, each one is classified.

Examples:
  clearance status
  clearance status 200 208
  clearance status --category duplicate`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusCategory, "category", "", "Only list codes in this category")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return listStatusCodes()
	}

	results := make([]status.Classification, 0, len(args))
	for _, arg := range args {
		code, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return fmt.Errorf("invalid status code %q", arg)
		}
		results = append(results, status.Classify(code))
	}

	return printResult(results, func() {
		w := output.Table()
		_, _ = fmt.Fprintln(w, "CODE\tMESSAGE\tCATEGORIES")
		for _, c := range results {
			msg := c.Message
			if !c.Known {
				msg += " (unregistered)"
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", c.Code, msg, joinCategories(c.Categories()))
		}
		_ = w.Flush()
	})
}

// categoryOrder is the listing order; success and error come last because
// they overlap the specific groups.
var categoryOrder = []status.Category{
	status.CategoryAdmissionStatus,
	status.CategoryDuplicate,
	status.CategoryNotFound,
	status.CategoryValidationError,
	status.CategoryCapacityIssue,
	status.CategoryAuthenticationFailure,
	status.CategorySuccess,
	status.CategoryError,
}

type categoryListing struct {
	Category status.Category         `json:"category"`
	Codes    []status.Classification `json:"codes"`
}

func listStatusCodes() error {
	var listings []categoryListing
	for _, cat := range categoryOrder {
		if statusCategory != "" && !strings.EqualFold(statusCategory, string(cat)) {
			continue
		}
		listing := categoryListing{Category: cat}
		for _, code := range status.Codes() {
			if c := status.Classify(code); c.Has(cat) {
				listing.Codes = append(listing.Codes, c)
			}
		}
		if len(listing.Codes) > 0 {
			listings = append(listings, listing)
		}
	}
	if statusCategory != "" && len(listings) == 0 {
		return fmt.Errorf("unknown category %q", statusCategory)
	}

	return printResult(listings, func() {
		title := cases.Title(language.English)
		for i, l := range listings {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s (%d):\n", title.String(strings.ReplaceAll(string(l.Category), "_", " ")), len(l.Codes))
			w := output.Table()
			for _, c := range l.Codes {
				_, _ = fmt.Fprintf(w, "  %d\t%s\n", c.Code, c.Message)
			}
			_ = w.Flush()
		}
	})
}

func joinCategories(cats []status.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
