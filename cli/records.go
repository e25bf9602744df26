package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vesselflow/ppe-engine/ppe"
)

var (
	heading = color.New(color.Bold)
	success = color.New(color.FgGreen)
	faint   = color.New(color.FgHiBlack)
	accent  = color.New(color.FgCyan)
)

// categoryAliases lets the CLI accept short category names.
var categoryAliases = map[string]ppe.Category{
	"head":        ppe.CategoryHead,
	"eye":         ppe.CategoryEyeFace,
	"face":        ppe.CategoryEyeFace,
	"hearing":     ppe.CategoryHearing,
	"respiratory": ppe.CategoryRespiratory,
	"hand":        ppe.CategoryHand,
	"body":        ppe.CategoryBody,
	"foot":        ppe.CategoryFoot,
	"fall":        ppe.CategoryFall,
}

func parseCategory(s string) (ppe.Category, error) {
	if c := ppe.Category(s); c.Valid() {
		return c, nil
	}
	if c, found := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; found {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// CatalogCmd lists the built-in catalog.
func CatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List issuable PPE items by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCatalog(cmd.OutOrStdout(), ppe.DefaultCatalog())
			return nil
		},
	}
}

func printCatalog(w io.Writer, catalog *ppe.Catalog) {
	for _, c := range ppe.Categories() {
		fmt.Fprintln(w, heading.Sprint(c))
		for _, item := range catalog.ItemsIn(c) {
			colors := ppe.NoColor
			if len(item.Colors) > 0 {
				colors = strings.Join(item.Colors, ", ")
			}
			fmt.Fprintf(w, "  %-28s sizes: %-24s colors: %s\n",
				item.Name, strings.Join(item.Sizes, ", "), colors)
		}
	}
}

// IssueCmd records a PPE issuance.
func IssueCmd(opts *rootOptions) *cobra.Command {
	var (
		form     ppe.IssueForm
		category string
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Record PPE issued to a crew member",
		Example: `  vesselflow issue --vessel "MT OCEAN VOYAGER" --requestor "John Doe" \
    --category hand --item "Nitrile Gloves" --size L --quantity 2 --verified`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategory(category)
			if err != nil {
				return err
			}
			form.Category = c

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			record, err := form.Issue(ppe.DefaultCatalog(), time.Now(), ppe.NewRecordID)
			if err != nil {
				return err
			}
			if err := a.records.Append(cmd.Context(), record); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %dx %s (%s/%s) to %s on %s [%s]\n",
				success.Sprint("Recorded"), record.Quantity, record.ItemName, record.Size, record.Color,
				record.RequestorName, record.VesselName, faint.Sprint(record.ID))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.VesselName, "vessel", "", "vessel name (required)")
	f.StringVar(&form.RequestorName, "requestor", "", "requestor name (required)")
	f.StringVar(&form.Date, "date", "", "issue date YYYY-MM-DD (default today)")
	f.StringVar(&category, "category", "head", "category (head|eye|hearing|respiratory|hand|body|foot|fall)")
	f.StringVar(&form.ItemName, "item", "", "item name from the catalog (required)")
	f.StringVar(&form.Size, "size", "", "size (default: first size of the item)")
	f.StringVar(&form.Color, "color", "", "color/variant (default: first color of the item)")
	f.IntVar(&form.Quantity, "quantity", 1, "quantity issued")
	f.BoolVar(&form.Verified, "verified", false, "confirm the quantity was checked")
	return cmd
}

// HistoryCmd prints the usage log, optionally filtered.
func HistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history [term]",
		Short: "Show the usage log, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			printHistory(cmd.OutOrStdout(), ppe.Search(a.records.Snapshot(), term))
			return nil
		},
	}
}

func printHistory(w io.Writer, records []ppe.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, faint.Sprint("No records found."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tVESSEL\tREQUESTOR\tITEM\tSIZE/COLOR\tQTY")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s / %s\t%d\n",
			r.Date, r.VesselName, r.RequestorName, r.ItemName, r.Size, r.Color, r.Quantity)
	}
	tw.Flush()
}

// StatsCmd prints the dashboard summary.
func StatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show fleet usage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			printStats(cmd.OutOrStdout(), ppe.Summarize(a.records.Snapshot()))
			return nil
		},
	}
}

func printStats(w io.Writer, s ppe.Stats) {
	fmt.Fprintf(w, "%s %d\n", heading.Sprint("Total items taken:"), s.TotalQuantity)
	fmt.Fprintf(w, "%s %d\n", heading.Sprint("Active vessels:   "), s.ActiveVessels)
	fmt.Fprintf(w, "%s %s\n", heading.Sprint("Top requestor:    "), accent.Sprint(s.TopRequestor))

	printBuckets(w, "By category", s.CategoryDistribution)
	printBuckets(w, "By vessel", s.VesselDistribution)
}

func printBuckets(w io.Writer, title string, buckets []ppe.Bucket) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, heading.Sprint(title))
	for _, b := range buckets {
		fmt.Fprintf(w, "  %-26s %5d  %s%%\n", b.Name, b.Quantity, b.Share.StringFixed(1))
	}
}
