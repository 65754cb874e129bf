package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/clientrequest"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/lead"
	"github.com/pipecrest/brokerage/modules/crm/services"
	"github.com/pipecrest/brokerage/pkg/application"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

type CRMAPIController struct {
	app      application.Application
	leads    *services.LeadService
	requests *services.RequestService
	deals    *services.DealService
	basePath string
}

func NewCRMAPIController(app application.Application) application.Controller {
	return &CRMAPIController{
		app:      app,
		leads:    app.Service(services.LeadService{}).(*services.LeadService),
		requests: app.Service(services.RequestService{}).(*services.RequestService),
		deals:    app.Service(services.DealService{}).(*services.DealService),
		basePath: "/crm/api",
	}
}

func (c *CRMAPIController) Key() string {
	return c.basePath
}

func (c *CRMAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/leads", c.CreateLead).Methods(http.MethodPost)
	router.HandleFunc("/leads", c.ListLeads).Methods(http.MethodGet)
	router.HandleFunc("/leads/{id}", c.GetLead).Methods(http.MethodGet)
	router.HandleFunc("/leads/{id}", c.UpdateLead).Methods(http.MethodPatch)
	router.HandleFunc("/leads/{id}/status", c.ChangeLeadStatus).Methods(http.MethodPut)
	router.HandleFunc("/leads/{id}/convert", c.ConvertLead).Methods(http.MethodPost)

	router.HandleFunc("/requests", c.CreateRequest).Methods(http.MethodPost)
	router.HandleFunc("/requests", c.ListRequests).Methods(http.MethodGet)
	router.HandleFunc("/requests/{id}", c.GetRequest).Methods(http.MethodGet)
	router.HandleFunc("/requests/{id}/approve", c.ApproveRequest).Methods(http.MethodPost)
	router.HandleFunc("/requests/{id}/reject", c.RejectRequest).Methods(http.MethodPost)
	router.HandleFunc("/requests/{id}/convert", c.ConvertRequest).Methods(http.MethodPost)

	router.HandleFunc("/deals", c.CreateDeal).Methods(http.MethodPost)
	router.HandleFunc("/deals", c.ListDeals).Methods(http.MethodGet)
	router.HandleFunc("/deals/{id}", c.GetDeal).Methods(http.MethodGet)
	router.HandleFunc("/deals/{id}", c.UpdateDeal).Methods(http.MethodPatch)
	router.HandleFunc("/deals/{id}", c.DeleteDeal).Methods(http.MethodDelete)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

func (c *CRMAPIController) CreateLead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string          `json:"name"`
		Phone           string          `json:"phone"`
		Source          string          `json:"source"`
		EstimatedBudget decimal.Decimal `json:"estimated_budget"`
		OwnerID         *uuid.UUID      `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	created, err := c.leads.Create(r.Context(), body.Name, body.Phone, body.Source, body.EstimatedBudget, body.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, leadJSON(created))
}

func (c *CRMAPIController) ListLeads(w http.ResponseWriter, r *http.Request) {
	params := &lead.FindParams{Limit: 50}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := lead.ParseStatus(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "INVALID_QUERY", "unknown status")
			return
		}
		params.Status = status
	}
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "INVALID_QUERY", "owner_id must be a UUID")
			return
		}
		params.OwnerID = &ownerID
	}
	items, err := c.leads.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, l := range items {
		out = append(out, leadJSON(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *CRMAPIController) GetLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown lead")
		return
	}
	found, err := c.leads.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leadJSON(found))
}

func (c *CRMAPIController) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown lead")
		return
	}
	var body struct {
		Name            string          `json:"name"`
		Phone           string          `json:"phone"`
		Source          string          `json:"source"`
		EstimatedBudget decimal.Decimal `json:"estimated_budget"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	updated, err := c.leads.Update(r.Context(), id, body.Name, body.Phone, body.Source, body.EstimatedBudget)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leadJSON(updated))
}

func (c *CRMAPIController) ChangeLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown lead")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	status, err := lead.ParseStatus(body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := c.leads.ChangeStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leadJSON(updated))
}

func (c *CRMAPIController) ConvertLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown lead")
		return
	}
	var body struct {
		DealValue *decimal.Decimal `json:"deal_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	created, err := c.leads.ConvertToDeal(r.Context(), id, body.DealValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dealJSON(created))
}

func (c *CRMAPIController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TeamLeaderID    uuid.UUID       `json:"team_leader_id"`
		ClientName      string          `json:"client_name"`
		Details         string          `json:"details"`
		EstimatedBudget decimal.Decimal `json:"estimated_budget"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	created, err := c.requests.Create(r.Context(), body.TeamLeaderID, body.ClientName, body.Details, body.EstimatedBudget)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestJSON(created))
}

func (c *CRMAPIController) ListRequests(w http.ResponseWriter, r *http.Request) {
	params := &clientrequest.FindParams{Limit: 50}
	if raw := r.URL.Query().Get("status"); raw != "" {
		params.Status = clientrequest.Status(raw)
	}
	if raw := r.URL.Query().Get("team_leader_id"); raw != "" {
		leaderID, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "INVALID_QUERY", "team_leader_id must be a UUID")
			return
		}
		params.TeamLeaderID = &leaderID
	}
	items, err := c.requests.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, req := range items {
		out = append(out, requestJSON(req))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *CRMAPIController) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown request")
		return
	}
	found, err := c.requests.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestJSON(found))
}

func (c *CRMAPIController) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown request")
		return
	}
	decided, err := c.requests.Approve(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestJSON(decided))
}

func (c *CRMAPIController) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown request")
		return
	}
	decided, err := c.requests.Reject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestJSON(decided))
}

func (c *CRMAPIController) ConvertRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown request")
		return
	}
	var body struct {
		DealValue *decimal.Decimal `json:"deal_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	created, err := c.requests.ConvertToDeal(r.Context(), id, body.DealValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dealJSON(created))
}

func (c *CRMAPIController) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ClientName  string          `json:"client_name"`
		Stage       string          `json:"stage"`
		DealValue   decimal.Decimal `json:"deal_value"`
		Probability int             `json:"probability"`
		OwnerID     *uuid.UUID      `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	stage, err := deal.ParseStage(body.Stage)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := c.deals.Create(r.Context(), body.ClientName, stage, body.DealValue, body.Probability, body.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dealJSON(created))
}

func (c *CRMAPIController) ListDeals(w http.ResponseWriter, r *http.Request) {
	params := &deal.FindParams{Limit: 50}
	if raw := r.URL.Query().Get("stage"); raw != "" {
		stage, err := deal.ParseStage(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "INVALID_QUERY", "unknown stage")
			return
		}
		params.Stage = stage
	}
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "INVALID_QUERY", "owner_id must be a UUID")
			return
		}
		params.OwnerID = &ownerID
	}
	items, err := c.deals.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, d := range items {
		out = append(out, dealJSON(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *CRMAPIController) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown deal")
		return
	}
	found, err := c.deals.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dealJSON(found))
}

func (c *CRMAPIController) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown deal")
		return
	}
	var dto deal.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	updated, err := c.deals.Update(r.Context(), id, &dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dealJSON(updated))
}

func (c *CRMAPIController) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown deal")
		return
	}
	if err := c.deals.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func leadJSON(l lead.Lead) map[string]any {
	out := map[string]any{
		"id":               l.ID().String(),
		"owner_id":         l.OwnerID().String(),
		"name":             l.Name(),
		"phone":            l.Phone(),
		"source":           l.Source(),
		"estimated_budget": l.EstimatedBudget().String(),
		"status":           string(l.Status()),
	}
	if l.ContactedAt() != nil {
		out["contacted_at"] = l.ContactedAt().Format(time.RFC3339)
	}
	if l.QualifiedAt() != nil {
		out["qualified_at"] = l.QualifiedAt().Format(time.RFC3339)
	}
	if l.ConvertedAt() != nil {
		out["converted_at"] = l.ConvertedAt().Format(time.RFC3339)
	}
	if l.LostAt() != nil {
		out["lost_at"] = l.LostAt().Format(time.RFC3339)
	}
	if l.ConvertedDealID() != nil {
		out["converted_deal_id"] = l.ConvertedDealID().String()
	}
	return out
}

func requestJSON(req clientrequest.ClientRequest) map[string]any {
	out := map[string]any{
		"id":               req.ID().String(),
		"owner_id":         req.OwnerID().String(),
		"team_leader_id":   req.TeamLeaderID().String(),
		"client_name":      req.ClientName(),
		"details":          req.Details(),
		"estimated_budget": req.EstimatedBudget().String(),
		"status":           string(req.Status()),
	}
	if req.DecidedAt() != nil {
		out["decided_at"] = req.DecidedAt().Format(time.RFC3339)
	}
	if req.DecidedBy() != nil {
		out["decided_by"] = req.DecidedBy().String()
	}
	if req.ConvertedDealID() != nil {
		out["converted_deal_id"] = req.ConvertedDealID().String()
	}
	return out
}

func dealJSON(d deal.Deal) map[string]any {
	out := map[string]any{
		"id":               d.ID().String(),
		"owner_id":         d.OwnerID().String(),
		"client_name":      d.ClientName(),
		"stage":            string(d.Stage()),
		"deal_value":       d.DealValue().String(),
		"commission_value": d.CommissionValue().String(),
		"probability":      d.Probability(),
	}
	if d.SourceLeadID() != nil {
		out["source_lead_id"] = d.SourceLeadID().String()
	}
	if d.SourceRequestID() != nil {
		out["source_request_id"] = d.SourceRequestID().String()
	}
	return out
}
