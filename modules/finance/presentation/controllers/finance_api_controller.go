package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/commission"
	"github.com/pipecrest/brokerage/modules/finance/domain/entities/costentry"
	"github.com/pipecrest/brokerage/modules/finance/domain/entities/salary"
	"github.com/pipecrest/brokerage/modules/finance/services"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/pkg/application"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

type FinanceAPIController struct {
	app        application.Application
	commission *services.CommissionService
	salaries   *services.SalaryService
	costs      *services.CostService
	basePath   string
}

func NewFinanceAPIController(app application.Application) application.Controller {
	return &FinanceAPIController{
		app:        app,
		commission: app.Service(services.CommissionService{}).(*services.CommissionService),
		salaries:   app.Service(services.SalaryService{}).(*services.SalaryService),
		costs:      app.Service(services.CostService{}).(*services.CostService),
		basePath:   "/finance/api",
	}
}

func (c *FinanceAPIController) Key() string {
	return c.basePath
}

func (c *FinanceAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/commission-rates/{role}", c.SetCommissionRate).Methods(http.MethodPut)
	router.HandleFunc("/commission-rates/{role}", c.GetCommissionRate).Methods(http.MethodGet)
	router.HandleFunc("/commission-rates/{role}/history", c.CommissionHistory).Methods(http.MethodGet)

	router.HandleFunc("/salaries/{employeeID}", c.SetSalary).Methods(http.MethodPut)
	router.HandleFunc("/salaries/{employeeID}", c.GetSalary).Methods(http.MethodGet)

	router.HandleFunc("/costs", c.AddCost).Methods(http.MethodPost)
	router.HandleFunc("/costs", c.ListCosts).Methods(http.MethodGet)
}

// atParam reads the "at" query parameter, defaulting to now.
func atParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (c *FinanceAPIController) SetCommissionRate(w http.ResponseWriter, r *http.Request) {
	role, err := profile.ParseRole(mux.Vars(r)["role"])
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown role")
		return
	}
	var body struct {
		Rate          decimal.Decimal `json:"rate"`
		EffectiveFrom time.Time       `json:"effective_from"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	version, err := c.commission.SetCurrentRate(r.Context(), role, body.Rate, body.EffectiveFrom)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rateVersionJSON(version))
}

func (c *FinanceAPIController) GetCommissionRate(w http.ResponseWriter, r *http.Request) {
	role, err := profile.ParseRole(mux.Vars(r)["role"])
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown role")
		return
	}
	at, err := atParam(r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_QUERY", "at must be RFC 3339")
		return
	}
	rate, err := c.commission.RateAt(r.Context(), role, at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role": string(role),
		"rate": rate.String(),
		"at":   at.Format(time.RFC3339),
	})
}

func (c *FinanceAPIController) CommissionHistory(w http.ResponseWriter, r *http.Request) {
	role, err := profile.ParseRole(mux.Vars(r)["role"])
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown role")
		return
	}
	versions, err := c.commission.History(r.Context(), role)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(versions))
	for _, v := range versions {
		out = append(out, rateVersionJSON(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *FinanceAPIController) SetSalary(w http.ResponseWriter, r *http.Request) {
	employeeID, err := uuid.Parse(mux.Vars(r)["employeeID"])
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown employee")
		return
	}
	var body struct {
		Amount        decimal.Decimal `json:"amount"`
		EffectiveFrom time.Time       `json:"effective_from"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	version, err := c.salaries.SetCurrent(r.Context(), employeeID, body.Amount, body.EffectiveFrom)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, salaryVersionJSON(version))
}

func (c *FinanceAPIController) GetSalary(w http.ResponseWriter, r *http.Request) {
	employeeID, err := uuid.Parse(mux.Vars(r)["employeeID"])
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown employee")
		return
	}
	at, err := atParam(r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_QUERY", "at must be RFC 3339")
		return
	}
	amount, err := c.salaries.SalaryAt(r.Context(), employeeID, at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employee_id": employeeID.String(),
		"amount":      amount.String(),
		"at":          at.Format(time.RFC3339),
	})
}

func (c *FinanceAPIController) AddCost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		IncurredAt  time.Time       `json:"incurred_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	created, err := c.costs.Add(r.Context(), body.Category, body.Description, body.Amount, body.IncurredAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, costEntryJSON(created))
}

func (c *FinanceAPIController) ListCosts(w http.ResponseWriter, r *http.Request) {
	params := &costentry.FindParams{
		Category: r.URL.Query().Get("category"),
		Limit:    50,
	}
	entries, err := c.costs.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		out = append(out, costEntryJSON(entry))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func rateVersionJSON(v commission.RateVersion) map[string]any {
	out := map[string]any{
		"id":             v.ID.String(),
		"rate":           v.Value.String(),
		"effective_from": v.EffectiveFrom.Format(time.RFC3339),
	}
	if v.EffectiveTo != nil {
		out["effective_to"] = v.EffectiveTo.Format(time.RFC3339)
	}
	return out
}

func salaryVersionJSON(v salary.SalaryVersion) map[string]any {
	out := map[string]any{
		"id":             v.ID.String(),
		"amount":         v.Value.String(),
		"effective_from": v.EffectiveFrom.Format(time.RFC3339),
	}
	if v.EffectiveTo != nil {
		out["effective_to"] = v.EffectiveTo.Format(time.RFC3339)
	}
	return out
}

func costEntryJSON(entry costentry.CostEntry) map[string]any {
	return map[string]any{
		"id":          entry.ID().String(),
		"category":    entry.Category(),
		"description": entry.Description(),
		"amount":      entry.Amount().String(),
		"incurred_at": entry.IncurredAt().Format(time.RFC3339),
		"created_by":  entry.CreatedBy().String(),
	}
}
