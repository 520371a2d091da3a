// Package report renders the two customer documents of a quote: the
// material/cost sheet and the price sheet with VAT.
package report

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/browser"

	"github.com/Simplici0/plise/internal/pricing"
)

const (
	CostFileName  = "cost.html"
	PriceFileName = "price.html"

	dateLayout = "02.01.2006"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcs = template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"qty":   func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

var (
	costTemplate  = template.Must(template.New("cost").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/cost.html"))
	priceTemplate = template.Must(template.New("price").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/price.html"))
)

// Sheet is the data shared by both documents.
type Sheet struct {
	Title      string
	Company    string
	Client     string
	Reference  string
	Date       string
	Currency   string
	Lines      []pricing.LineResult
	Totals     pricing.Totals
	VATPercent float64
}

// Options carries the presentation settings of a sheet.
type Options struct {
	Company  string
	Currency string
}

// NewSheet builds sheet data from a priced order.
func NewSheet(opts Options, client, reference string, result pricing.Result, book pricing.PriceBook, at time.Time) Sheet {
	return Sheet{
		Company:    opts.Company,
		Client:     client,
		Reference:  reference,
		Date:       at.Format(dateLayout),
		Currency:   opts.Currency,
		Lines:      result.Lines,
		Totals:     result.Totals,
		VATPercent: book.VATPercent,
	}
}

// RenderCost writes the material and cost sheet.
func RenderCost(w io.Writer, s Sheet) error {
	s.Title = "Material and cost sheet"
	if err := costTemplate.ExecuteTemplate(w, "layout", s); err != nil {
		return fmt.Errorf("render cost sheet: %w", err)
	}
	return nil
}

// RenderPrice writes the price sheet.
func RenderPrice(w io.Writer, s Sheet) error {
	s.Title = "Price sheet"
	if err := priceTemplate.ExecuteTemplate(w, "layout", s); err != nil {
		return fmt.Errorf("render price sheet: %w", err)
	}
	return nil
}

// Files holds the paths of written documents.
type Files struct {
	Cost  string `json:"cost"`
	Price string `json:"price"`
}

// WriteFiles renders both documents into dir.
func WriteFiles(dir string, s Sheet) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create report directory: %w", err)
	}

	files := Files{
		Cost:  filepath.Join(dir, CostFileName),
		Price: filepath.Join(dir, PriceFileName),
	}

	if err := writeFile(files.Cost, s, RenderCost); err != nil {
		return Files{}, err
	}
	if err := writeFile(files.Price, s, RenderPrice); err != nil {
		return Files{}, err
	}
	return files, nil
}

func writeFile(path string, s Sheet, render func(io.Writer, Sheet) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f, s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// openFile hands a document to the desktop's default viewer.
var openFile = browser.OpenFile

// Open shows path in the user's default viewer.
func Open(path string) error {
	if err := openFile(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// Open shows both documents, cost sheet first. Every document is attempted;
// failures are joined.
func (f Files) Open() error {
	var errs []error
	for _, path := range []string{f.Cost, f.Price} {
		if err := Open(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
