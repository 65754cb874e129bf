package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/businessunit"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/team"
	"github.com/pipecrest/brokerage/modules/org/services"
	"github.com/pipecrest/brokerage/pkg/application"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

type OrgAPIController struct {
	app      application.Application
	profiles *services.ProfileService
	teams    *services.TeamService
	units    *services.BusinessUnitService
	basePath string
}

func NewOrgAPIController(app application.Application) application.Controller {
	return &OrgAPIController{
		app:      app,
		profiles: app.Service(services.ProfileService{}).(*services.ProfileService),
		teams:    app.Service(services.TeamService{}).(*services.TeamService),
		units:    app.Service(services.BusinessUnitService{}).(*services.BusinessUnitService),
		basePath: "/org/api",
	}
}

func (c *OrgAPIController) Key() string {
	return c.basePath
}

func (c *OrgAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/profiles", c.InviteProfile).Methods(http.MethodPost)
	router.HandleFunc("/profiles/{id}", c.GetProfile).Methods(http.MethodGet)
	router.HandleFunc("/profiles/{id}", c.UpdateProfile).Methods(http.MethodPatch)
	router.HandleFunc("/profiles/{id}/supervisor", c.AssignSupervisor).Methods(http.MethodPut)

	router.HandleFunc("/teams", c.CreateTeam).Methods(http.MethodPost)
	router.HandleFunc("/teams/{id}/leader", c.SetTeamLeader).Methods(http.MethodPut)
	router.HandleFunc("/teams/{id}/members/{profileID}", c.AddTeamMember).Methods(http.MethodPut)
	router.HandleFunc("/teams/{id}/members/{profileID}", c.RemoveTeamMember).Methods(http.MethodDelete)

	router.HandleFunc("/business-units", c.CreateBusinessUnit).Methods(http.MethodPost)
	router.HandleFunc("/business-units/{id}/managers/{profileID}", c.AssignManager).Methods(http.MethodPut)
	router.HandleFunc("/business-units/{id}/managers/{profileID}", c.UnassignManager).Methods(http.MethodDelete)
}

func pathID(r *http.Request, key string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[key])
}

func (c *OrgAPIController) InviteProfile(w http.ResponseWriter, r *http.Request) {
	var dto profile.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	created, err := c.profiles.Invite(r.Context(), &dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profileJSON(created))
}

func (c *OrgAPIController) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown profile")
		return
	}
	p, err := c.profiles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileJSON(p))
}

func (c *OrgAPIController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown profile")
		return
	}
	var dto profile.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	updated, err := c.profiles.Update(r.Context(), id, &dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileJSON(updated))
}

func (c *OrgAPIController) AssignSupervisor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown profile")
		return
	}
	var body struct {
		SupervisorID *uuid.UUID `json:"supervisor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	updated, err := c.profiles.AssignSupervisor(r.Context(), id, body.SupervisorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileJSON(updated))
}

func (c *OrgAPIController) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name           string     `json:"name"`
		LeaderID       uuid.UUID  `json:"leader_id"`
		BusinessUnitID *uuid.UUID `json:"business_unit_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	created, err := c.teams.Create(r.Context(), body.Name, body.LeaderID, body.BusinessUnitID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, teamJSON(created))
}

func (c *OrgAPIController) SetTeamLeader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown team")
		return
	}
	var body struct {
		LeaderID uuid.UUID `json:"leader_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	updated, err := c.teams.SetLeader(r.Context(), id, body.LeaderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teamJSON(updated))
}

func (c *OrgAPIController) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "id")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown team")
		return
	}
	profileID, err := pathID(r, "profileID")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown profile")
		return
	}
	if err := c.teams.AddMember(r.Context(), teamID, profileID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *OrgAPIController) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "id")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown team")
		return
	}
	profileID, err := pathID(r, "profileID")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown profile")
		return
	}
	if err := c.teams.RemoveMember(r.Context(), teamID, profileID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *OrgAPIController) CreateBusinessUnit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string     `json:"name"`
		LeaderID *uuid.UUID `json:"leader_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
		return
	}
	created, err := c.units.Create(r.Context(), body.Name, body.LeaderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, businessUnitJSON(created))
}

func (c *OrgAPIController) AssignManager(w http.ResponseWriter, r *http.Request) {
	unitID, err := pathID(r, "id")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown business unit")
		return
	}
	managerID, err := pathID(r, "profileID")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown profile")
		return
	}
	if err := c.units.AssignManager(r.Context(), unitID, managerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *OrgAPIController) UnassignManager(w http.ResponseWriter, r *http.Request) {
	unitID, err := pathID(r, "id")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown business unit")
		return
	}
	managerID, err := pathID(r, "profileID")
	if err != nil {
		writeAPIError(w, http.StatusNotFound, serrors.CodeNotFound, "unknown profile")
		return
	}
	if err := c.units.UnassignManager(r.Context(), unitID, managerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func profileJSON(p profile.Profile) map[string]any {
	out := map[string]any{
		"id":                p.ID().String(),
		"display_name":      p.DisplayName(),
		"email":             p.Email(),
		"role":              string(p.Role()),
		"under_supervision": p.UnderSupervision(),
		"created_at":        p.CreatedAt().Format(time.RFC3339),
		"updated_at":        p.UpdatedAt().Format(time.RFC3339),
	}
	if p.BusinessUnitID() != nil {
		out["business_unit_id"] = p.BusinessUnitID().String()
	}
	if p.SupervisedBy() != nil {
		out["supervised_by"] = p.SupervisedBy().String()
	}
	return out
}

func teamJSON(t team.Team) map[string]any {
	out := map[string]any{
		"id":        t.ID().String(),
		"name":      t.Name(),
		"leader_id": t.LeaderID().String(),
	}
	if t.BusinessUnitID() != nil {
		out["business_unit_id"] = t.BusinessUnitID().String()
	}
	return out
}

func businessUnitJSON(b businessunit.BusinessUnit) map[string]any {
	out := map[string]any{
		"id":   b.ID().String(),
		"name": b.Name(),
	}
	if b.LeaderID() != nil {
		out["leader_id"] = b.LeaderID().String()
	}
	return out
}
