package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"housetab/internal/core"
	"housetab/internal/services"
)

const listingCacheKey = "all"

// respondJSON writes a JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain errors to the API error contract: validation
// failures are 400, missing months or positions 404, everything else 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"url", r.URL.Path,
			"error", err)
	}

	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", core.ErrValidation, err)
	}
	return nil
}

func parsePosition(raw string) (int, error) {
	position, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid position %q", core.ErrValidation, raw)
	}
	return position, nil
}

// listMonthsCached serves listings from the cache, falling back to the
// service on a miss.
func (s *Server) listMonthsCached(ctx context.Context) ([]services.MonthTotal, error) {
	if totals, found := s.listingCache.Get(listingCacheKey); found {
		return totals, nil
	}
	totals, err := s.ledger.ListMonths(ctx)
	if err != nil {
		return nil, err
	}
	s.listingCache.Set(listingCacheKey, totals)
	return totals, nil
}

// invalidateMonth drops cached state touched by a mutation of one month.
// The listing cache is purged wholesale since any mutation can change
// totals or ordering.
func (s *Server) invalidateMonth(monthKey string) {
	s.summaryCache.Delete(monthKey)
	s.listingCache.Purge()
}

func (s *Server) handleListMonths(w http.ResponseWriter, r *http.Request) {
	totals, err := s.listMonthsCached(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (s *Server) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	monthKey := r.PathValue("monthKey")

	if summary, found := s.summaryCache.Get(monthKey); found {
		respondJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.ledger.GetMonth(r.Context(), monthKey)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.summaryCache.Set(monthKey, summary)
	respondJSON(w, http.StatusOK, summary)
}

type createMonthRequest struct {
	MonthName string      `json:"month_name"`
	Rent      json.Number `json:"rent"`
	Heating   json.Number `json:"heating"`
	Electric  json.Number `json:"electric"`
	Water     json.Number `json:"water"`
	Internet  json.Number `json:"internet"`
}

// numberOrZero keeps the original API's behavior of treating omitted fixed
// costs as zero.
func numberOrZero(n json.Number) string {
	if n == "" {
		return "0"
	}
	return n.String()
}

func (s *Server) handleCreateMonth(w http.ResponseWriter, r *http.Request) {
	var req createMonthRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	summary, err := s.ledger.CreateMonth(r.Context(), req.MonthName, services.FixedCosts{
		Rent:     numberOrZero(req.Rent),
		Heating:  numberOrZero(req.Heating),
		Electric: numberOrZero(req.Electric),
		Water:    numberOrZero(req.Water),
		Internet: numberOrZero(req.Internet),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateMonth(req.MonthName)
	respondJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	monthKey := r.PathValue("monthKey")

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	if err := s.ledger.DeleteMonth(r.Context(), monthKey); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateMonth(monthKey)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Month %s deleted successfully", monthKey),
	})
}

type amountRequest struct {
	Amount json.Number `json:"amount"`
}

type costRequest struct {
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
}

func (s *Server) handleSetFixedCost(w http.ResponseWriter, r *http.Request) {
	monthKey := r.PathValue("monthKey")
	field := r.PathValue("field")

	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	summary, err := s.ledger.SetFixedCost(r.Context(), monthKey, field, req.Amount.String())
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateMonth(monthKey)
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAddCost(w http.ResponseWriter, r *http.Request) {
	monthKey := r.PathValue("monthKey")

	var req costRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	summary, err := s.ledger.AddCost(r.Context(), monthKey, req.Amount.String(), req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateMonth(monthKey)
	respondJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleEditCost(w http.ResponseWriter, r *http.Request) {
	monthKey := r.PathValue("monthKey")
	position, err := parsePosition(r.PathValue("position"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req costRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	summary, err := s.ledger.EditCost(r.Context(), monthKey, position, req.Amount.String(), req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateMonth(monthKey)
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDeleteCost(w http.ResponseWriter, r *http.Request) {
	monthKey := r.PathValue("monthKey")
	position, err := parsePosition(r.PathValue("position"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	removed, summary, err := s.ledger.DeleteCost(r.Context(), monthKey, position)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateMonth(monthKey)
	respondJSON(w, http.StatusOK, map[string]any{
		"removed": removed,
		"month":   summary,
	})
}

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	monthKey := r.PathValue("monthKey")

	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	summary, err := s.ledger.AddPayment(r.Context(), monthKey, req.Amount.String())
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateMonth(monthKey)
	respondJSON(w, http.StatusCreated, summary)
}

type consoleRequest struct {
	Command string `json:"command"`
}

type consoleResponse struct {
	Output        string `json:"output"`
	Success       bool   `json:"success"`
	RefreshNeeded bool   `json:"refresh_needed"`
}

// handleConsole runs one web-console command. Mutating console commands
// take the same mutation lock as the JSON routes.
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	var req consoleRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	s.mutationMu.Lock()
	result, err := s.console.Execute(r.Context(), req.Command)
	s.mutationMu.Unlock()
	if err != nil {
		respondError(w, r, err)
		return
	}

	if result.RefreshNeeded {
		s.summaryCache.Purge()
		s.listingCache.Purge()
	}

	respondJSON(w, http.StatusOK, consoleResponse{
		Output:        result.Output,
		Success:       true,
		RefreshNeeded: result.RefreshNeeded,
	})
}
