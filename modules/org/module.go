package org

import (
	"embed"

	ledgerservices "github.com/pipecrest/brokerage/modules/ledger/services"
	"github.com/pipecrest/brokerage/modules/org/infrastructure/persistence"
	"github.com/pipecrest/brokerage/modules/org/presentation/controllers"
	"github.com/pipecrest/brokerage/modules/org/services"
	"github.com/pipecrest/brokerage/pkg/application"
)

//go:embed infrastructure/persistence/schema/org-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)

	profileRepo := persistence.NewProfileRepository()
	teamRepo := persistence.NewTeamRepository()
	unitRepo := persistence.NewBusinessUnitRepository()

	ledger := app.Service(ledgerservices.LedgerService{}).(*ledgerservices.LedgerService)
	scopes := services.NewScopeService(profileRepo, teamRepo, unitRepo)
	authz := services.NewAuthzService(scopes)

	app.RegisterServices(
		scopes,
		authz,
		services.NewProfileService(profileRepo, authz, app.EventPublisher(), ledger),
		services.NewTeamService(teamRepo, authz, app.EventPublisher(), ledger),
		services.NewBusinessUnitService(unitRepo, authz, app.EventPublisher(), ledger),
	)
	app.RegisterControllers(
		controllers.NewOrgAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "org"
}
