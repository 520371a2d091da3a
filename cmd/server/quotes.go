package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/plise/internal/metrics"
	"github.com/Simplici0/plise/internal/plise"
	"github.com/Simplici0/plise/internal/pricing"
	"github.com/Simplici0/plise/internal/quotes"
	"github.com/Simplici0/plise/internal/report"
)

const fallbackSavedMessage = "Saved prices could not be read; this quote was priced with the built-in defaults."

type quoteViewData struct {
	baseViewData
	Client     string
	Notes      string
	Rows       []lineRow
	Products   []plise.ProductName
	Colors     []plise.ColorName
	Result     *pricing.Result
	Currency   string
	VATPercent float64
}

type quotesViewData struct {
	baseViewData
	Query    string
	Quotes   []quotes.ListItem
	Currency string
}

type quoteDetailViewData struct {
	baseViewData
	Quote    quotes.Quote
	Lines    []pricing.LineResult
	Currency string
}

func (s *server) newQuoteView(values quoteFormValues) quoteViewData {
	rows := values.Rows
	if len(rows) == 0 {
		rows = []lineRow{defaultRow()}
	}
	return quoteViewData{
		Client:   values.Client,
		Notes:    values.Notes,
		Rows:     rows,
		Products: plise.ProductNames,
		Colors:   plise.ColorNames,
		Currency: s.cfg.Report.Currency,
	}
}

func (s *server) handleQuoteForm(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "quote.html", s.newQuoteView(quoteFormValues{}))
}

func (s *server) handleQuoteSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	values, validationErr := parseQuoteFormValues(r)
	view := s.newQuoteView(values)

	if values.Action == "add" {
		view.Rows = append(view.Rows, defaultRow())
		s.renderTemplate(w, "quote.html", view)
		return
	}

	if validationErr != nil {
		view.ErrorMessage = validationErr.Error()
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "quote.html", view)
		return
	}
	if len(values.Lines) == 0 {
		view.ErrorMessage = "Add at least one screen."
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "quote.html", view)
		return
	}

	book, warning := s.loadPriceBook()
	policy := s.cfg.ProfitPolicy()

	if values.Action == "save" {
		q, err := s.quotes.Create(values.Client, values.Notes, values.Lines, book, policy)
		if err != nil {
			s.log.Error("save quote", "error", err)
			http.Error(w, "failed to save quote", http.StatusInternalServerError)
			return
		}
		metrics.QuotesSaved.Inc()
		s.log.Info("quote saved", "id", q.ID, "reference", q.Reference, "lines", len(q.Lines), "total", q.Totals.PriceWithVAT)
		target := fmt.Sprintf("/quotes/%d", q.ID)
		if warning != "" {
			s.log.Warn("quote saved with default prices", "id", q.ID)
			target += "?fallback=1"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	result := pricing.Calculate(values.Lines, book, policy)
	metrics.QuotesComputed.Inc()
	metrics.LinesPriced.Add(float64(len(values.Lines)))

	view.ErrorMessage = warning
	view.Result = &result
	view.VATPercent = book.VATPercent
	s.renderTemplate(w, "quote.html", view)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := s.quotes.List(query)
	if err != nil {
		s.log.Error("list quotes", "error", err)
		http.Error(w, "failed to load quotes", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "quotes.html", quotesViewData{
		Query:    query,
		Quotes:   items,
		Currency: s.cfg.Report.Currency,
	})
}

func (s *server) loadQuote(w http.ResponseWriter, r *http.Request) (quotes.Quote, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid quote id", http.StatusBadRequest)
		return quotes.Quote{}, false
	}

	q, err := s.quotes.Get(id)
	if errors.Is(err, quotes.ErrNotFound) {
		http.NotFound(w, r)
		return quotes.Quote{}, false
	}
	if err != nil {
		s.log.Error("load quote", "id", id, "error", err)
		http.Error(w, "failed to load quote", http.StatusInternalServerError)
		return quotes.Quote{}, false
	}
	return q, true
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	q, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	var base baseViewData
	if r.URL.Query().Get("fallback") == "1" {
		base.ErrorMessage = fallbackSavedMessage
	}

	s.renderTemplate(w, "quote_detail.html", quoteDetailViewData{
		baseViewData: base,
		Quote:        q,
		Lines:        q.Result().Lines,
		Currency:     s.cfg.Report.Currency,
	})
}

// handleQuoteReport serves one of the report documents of a saved quote.
// Totals come from the stored snapshot.
func (s *server) handleQuoteReport(render func(io.Writer, report.Sheet) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := s.loadQuote(w, r)
		if !ok {
			return
		}

		result := q.Result()
		result.Totals = q.Totals

		sheet := report.NewSheet(
			report.Options{Company: s.cfg.Report.Company, Currency: s.cfg.Report.Currency},
			q.Client,
			q.Reference,
			result,
			q.PriceBook,
			parseCreatedAt(q.CreatedAt),
		)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := render(w, sheet); err != nil {
			s.log.Error("render report", "id", q.ID, "error", err)
			http.Error(w, "failed to render report", http.StatusInternalServerError)
		}
	}
}

func parseCreatedAt(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}
