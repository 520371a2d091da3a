package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simplici0/plise/cmd/plise/output"
	"github.com/Simplici0/plise/internal/pricebook"
	"github.com/Simplici0/plise/internal/pricing"
	"github.com/Simplici0/plise/internal/quotes"
	"github.com/Simplici0/plise/internal/report"
)

var (
	quoteLines     []string
	quoteClient    string
	quoteNotes     string
	quoteReportDir string
	quoteOpen      bool
	quoteSave      bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price an order of screens",
	Long: `Compute quantities, cost and price for one or more screens.

Each --line is WxH in centimetres, optionally followed by the type
(classic, wide, slim) and the color (white, painted, wood).

Examples:
  plise quote --line 100x100
  plise quote --line 180x220:wide:wood --line 90x150:slim --client "Harbor Cafe"
  plise quote --line 120x200 --report-dir ./out --open
  plise quote --line 120x200 --save --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuote(cmd)
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringArrayVarP(&quoteLines, "line", "l", nil, "Screen as WxH[:type[:color]] (repeatable, required)")
	quoteCmd.Flags().StringVar(&quoteClient, "client", "", "Client name printed on reports")
	quoteCmd.Flags().StringVar(&quoteNotes, "notes", "", "Free-form notes stored with a saved quote")
	quoteCmd.Flags().StringVar(&quoteReportDir, "report-dir", "", "Write cost and price sheets to this directory")
	quoteCmd.Flags().BoolVar(&quoteOpen, "open", false, "Open the cost and price sheets after writing them")
	quoteCmd.Flags().BoolVar(&quoteSave, "save", false, "Store the quote in the database")
	_ = quoteCmd.MarkFlagRequired("line")
}

// openReports shows the written documents in the default viewer.
var openReports = func(f report.Files) error { return f.Open() }

type quoteOutput struct {
	Reference string         `json:"reference,omitempty"`
	Client    string         `json:"client,omitempty"`
	Policy    string         `json:"profit_policy"`
	Result    pricing.Result `json:"result"`
	Reports   *report.Files  `json:"reports,omitempty"`
}

func runQuote(cmd *cobra.Command) error {
	lines, err := parseLineSpecs(quoteLines)
	if err != nil {
		return err
	}

	e, err := openEnv(quoteSave)
	if err != nil {
		return err
	}
	defer e.Close()

	book, err := pricebook.LoadOrDefault(e.prices, e.log)
	if err != nil && !errors.Is(err, pricebook.ErrFallback) {
		return err
	}
	if err != nil && !jsonOutput {
		output.Warning("Saved prices could not be read; built-in defaults are in use.")
	}

	policy := e.cfg.ProfitPolicy()
	out := quoteOutput{
		Client: quoteClient,
		Policy: string(policy),
		Result: pricing.Calculate(lines, book, policy),
	}

	if quoteSave {
		q, err := quotes.NewStore(e.db).Create(quoteClient, quoteNotes, lines, book, policy)
		if err != nil {
			return fmt.Errorf("save quote: %w", err)
		}
		out.Reference = q.Reference
		e.log.Info("quote saved", "id", q.ID, "reference", q.Reference)
	}

	if quoteReportDir != "" || quoteOpen {
		dir := quoteReportDir
		if dir == "" {
			dir = e.cfg.Report.Dir
		}
		sheet := report.NewSheet(
			report.Options{Company: e.cfg.Report.Company, Currency: e.cfg.Report.Currency},
			quoteClient, out.Reference, out.Result, book, time.Now(),
		)
		files, err := report.WriteFiles(dir, sheet)
		if err != nil {
			return err
		}
		out.Reports = &files

		if quoteOpen {
			if err := openReports(files); err != nil {
				e.log.Warn("open reports", "error", err)
				if !jsonOutput {
					output.Warning("Could not open reports: %v", err)
				}
			}
		}
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	printQuote(out, book, e.cfg.Report.Currency)
	return nil
}

func printQuote(out quoteOutput, book pricing.PriceBook, currency string) {
	output.Section("Quote")
	if out.Client != "" {
		output.KeyValue("Client", out.Client)
	}
	if out.Reference != "" {
		output.KeyValue("Reference", out.Reference)
	}
	output.KeyValue("Profit policy", out.Policy)

	for i, lr := range out.Result.Lines {
		q := lr.Quantities
		output.Section(fmt.Sprintf("Screen %d: %sx%s %s / %s", i+1,
			formatQty(lr.Line.WidthCM), formatQty(lr.Line.HeightCM),
			lr.Line.Type.Name().Label(), lr.Line.Type.Color().Label()))
		output.KeyValue("Frame (cm)", formatQty(q.FrameLength))
		output.KeyValue("Sash (cm)", formatQty(q.SashLength))
		output.KeyValue("Fabric (cm²)", formatQty(q.FabricArea))
		output.KeyValue("Strip (cm)", formatQty(q.StripLength))
		output.KeyValue("Hardware", fmt.Sprintf("%d corners, %d wheels, %d clips, %d stops, %d returns",
			q.Corners, q.Wheels, q.Clips, q.Stops, q.Returns))
		output.KeyValue("Labor", formatMoney(lr.Labor, currency))
		output.KeyValue("Cost", formatMoney(lr.Cost, currency))
	}

	t := out.Result.Totals
	output.Section("Totals")
	output.KeyValue("Cost", formatMoney(t.Cost, currency))
	output.KeyValue("Price", formatMoney(t.Price, currency))
	output.KeyValue(fmt.Sprintf("With VAT (%s%%)", formatQty(book.VATPercent)), formatMoney(t.PriceWithVAT, currency))

	if out.Reports != nil {
		output.Success("Reports written: %s, %s", out.Reports.Cost, out.Reports.Price)
	}
}

func formatMoney(v float64, currency string) string {
	return fmt.Sprintf("%.2f %s", v, currency)
}

func formatQty(v float64) string {
	return fmt.Sprintf("%g", v)
}
