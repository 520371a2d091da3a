package main

import (
	"net/http"

	"github.com/Simplici0/plise/internal/metrics"
	"github.com/Simplici0/plise/internal/pricing"
)

type pricesViewData struct {
	baseViewData
	PriceBook pricing.PriceBook
}

func (s *server) handleAdminPricesForm(w http.ResponseWriter, r *http.Request) {
	book, warning := s.loadPriceBook()

	s.renderTemplate(w, "admin_prices.html", pricesViewData{
		baseViewData: baseViewData{ErrorMessage: warning},
		PriceBook:    book,
	})
}

func (s *server) handleAdminPricesSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	book, validationErr := parsePriceBookForm(r)
	if validationErr != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "admin_prices.html", pricesViewData{
			baseViewData: baseViewData{ErrorMessage: validationErr.Error()},
			PriceBook:    book,
		})
		return
	}

	s.savePriceBook(w, book, "Prices updated.")
}

func (s *server) handleAdminPricesReset(w http.ResponseWriter, r *http.Request) {
	s.savePriceBook(w, pricing.DefaultPriceBook(), "Default prices restored.")
}

func (s *server) savePriceBook(w http.ResponseWriter, book pricing.PriceBook, message string) {
	s.pricesMu.Lock()
	err := s.prices.Save(book)
	s.pricesMu.Unlock()

	if err != nil {
		metrics.PriceBookSaves.WithLabelValues("error").Inc()
		s.log.Error("save price book", "error", err)
		http.Error(w, "failed to save prices", http.StatusInternalServerError)
		return
	}
	metrics.PriceBookSaves.WithLabelValues("ok").Inc()
	s.log.Info("price book saved")

	s.renderTemplate(w, "admin_prices.html", pricesViewData{
		baseViewData: baseViewData{SuccessMessage: message},
		PriceBook:    book,
	})
}
