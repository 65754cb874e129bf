package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/ledger/services"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/application"
	"github.com/pipecrest/brokerage/pkg/composables"
)

type LedgerAPIController struct {
	app      application.Application
	ledger   *services.LedgerService
	basePath string
}

func NewLedgerAPIController(app application.Application) application.Controller {
	return &LedgerAPIController{
		app:      app,
		ledger:   app.Service(services.LedgerService{}).(*services.LedgerService),
		basePath: "/ledger/api",
	}
}

func (c *LedgerAPIController) Key() string {
	return c.basePath
}

func (c *LedgerAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/entries", c.List).Methods(http.MethodGet)
}

func (c *LedgerAPIController) List(w http.ResponseWriter, r *http.Request) {
	actor, err := composables.UseActor(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no actor")
		return
	}
	role, err := profile.ParseRole(actor.Role)
	if err != nil || !permissions.Allowed(permissions.ActionViewLedger, role) {
		writeAPIError(w, http.StatusForbidden, "ROLE_INSUFFICIENT", "role may not view the ledger")
		return
	}

	params := &activitylog.FindParams{Limit: 50}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			params.Limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("action")); v != "" {
		params.Action = v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("entity_type")); v != "" {
		params.EntityType = v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("actor_id")); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			params.ActorID = &id
		}
	}

	entries, total, err := c.ledger.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		item := map[string]any{
			"id":          entry.ID,
			"action":      entry.Action,
			"entity_type": entry.EntityType,
			"created_at":  entry.CreatedAt.Format(time.RFC3339),
		}
		if entry.ActorID != nil {
			item["actor_id"] = entry.ActorID.String()
		}
		if entry.EntityID != nil {
			item["entity_id"] = entry.EntityID.String()
		}
		if len(entry.Metadata) > 0 {
			item["metadata"] = entry.Metadata
		}
		out = append(out, item)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}
