package handlers

import (
	"net/http"
	"strconv"
	"time"
)

// ReporteVentasGet returns today's sales by default; with ?desde and ?hasta
// (YYYY-MM-DD, inclusive) it aggregates the period instead.
func (s *Server) ReporteVentasGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	desdeStr, hastaStr := q.Get("desde"), q.Get("hasta")

	if desdeStr == "" && hastaStr == "" {
		s.writeJSON(w, http.StatusOK, s.App.Reports().DailySales())
		return
	}

	desde, err := time.ParseInLocation("2006-01-02", desdeStr, time.Local)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Parámetro 'desde' inválido, use YYYY-MM-DD")
		return
	}
	hasta, err := time.ParseInLocation("2006-01-02", hastaStr, time.Local)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Parámetro 'hasta' inválido, use YYYY-MM-DD")
		return
	}
	// Push hasta to the end of its day so same-day invoices count.
	hasta = hasta.Add(24*time.Hour - time.Nanosecond)
	if hasta.Before(desde) {
		s.writeError(w, http.StatusBadRequest, "El rango de fechas es inválido: 'hasta' es anterior a 'desde'")
		return
	}

	s.writeJSON(w, http.StatusOK, s.App.Reports().PeriodSales(desde, hasta))
}

func (s *Server) ReporteTopProductosGet(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "Parámetro 'limit' inválido")
			return
		}
		limit = n
	}
	s.writeJSON(w, http.StatusOK, s.App.Reports().TopProducts(limit))
}

func (s *Server) ReporteAlertasStockGet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.App.Reports().LowStockAlerts(0))
}

func (s *Server) ReporteMesasGet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.App.Reports().TableOccupancy())
}
