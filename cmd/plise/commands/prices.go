package commands

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/plise/cmd/plise/output"
	"github.com/Simplici0/plise/internal/pricebook"
	"github.com/Simplici0/plise/internal/pricing"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show or update the price book",
}

var pricesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current price book",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		book, err := pricebook.LoadOrDefault(e.prices, e.log)
		if err != nil && !errors.Is(err, pricebook.ErrFallback) {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), book)
		}
		if err != nil {
			output.Warning("Saved prices could not be read; built-in defaults are shown.")
		}
		printPriceBook(book)
		return nil
	},
}

var pricesSetCmd = &cobra.Command{
	Use:   "set key=value [key=value...]",
	Short: "Update one or more price book entries",
	Long: `Update price book entries by key. Run "plise prices show" for the keys.

Examples:
  plise prices set fabric=32.5
  plise prices set aluminum_wood=150 vat_percent=18`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		book, err := pricebook.LoadOrDefault(e.prices, e.log)
		if err != nil && !errors.Is(err, pricebook.ErrFallback) {
			return err
		}
		if err != nil {
			output.Warning("Saved prices could not be read; changes are applied to the built-in defaults.")
		}
		if err := applyAssignments(&book, args); err != nil {
			return err
		}
		if err := e.prices.Save(book); err != nil {
			return fmt.Errorf("save price book: %w", err)
		}

		e.log.Info("price book updated", "entries", len(args))
		output.Success("Prices updated (%d %s).", len(args), plural(len(args), "entry", "entries"))
		return nil
	},
}

var pricesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the built-in default prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.prices.Save(pricing.DefaultPriceBook()); err != nil {
			return fmt.Errorf("save price book: %w", err)
		}
		e.log.Info("price book reset to defaults")
		output.Success("Default prices restored.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pricesCmd)
	pricesCmd.AddCommand(pricesShowCmd, pricesSetCmd, pricesResetCmd)
}

// applyAssignments applies "key=value" pairs to book. Nothing is changed when
// any pair is invalid.
func applyAssignments(book *pricing.PriceBook, args []string) error {
	updated := *book
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("%q: expected key=value", arg)
		}
		key = strings.TrimSpace(key)

		f, ok := updated.Field(key)
		if !ok {
			return fmt.Errorf("unknown price key %q", key)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be numeric", key)
		}
		*f.Value = v
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	*book = updated
	return nil
}

func printPriceBook(book pricing.PriceBook) {
	output.Section("Price book")
	for _, f := range book.Fields() {
		value := strconv.FormatFloat(*f.Value, 'f', -1, 64)
		if f.Percent {
			value += "%"
		}
		output.KeyValue(f.Key, value)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
