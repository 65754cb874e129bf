package crm

import (
	"embed"

	"github.com/pipecrest/brokerage/modules/crm/infrastructure/persistence"
	"github.com/pipecrest/brokerage/modules/crm/presentation/controllers"
	"github.com/pipecrest/brokerage/modules/crm/services"
	financeservices "github.com/pipecrest/brokerage/modules/finance/services"
	ledgerservices "github.com/pipecrest/brokerage/modules/ledger/services"
	orgpersistence "github.com/pipecrest/brokerage/modules/org/infrastructure/persistence"
	orgservices "github.com/pipecrest/brokerage/modules/org/services"
	"github.com/pipecrest/brokerage/pkg/application"
	"github.com/pipecrest/brokerage/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/crm-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)

	ledger := app.Service(ledgerservices.LedgerService{}).(*ledgerservices.LedgerService)
	authz := app.Service(orgservices.AuthzService{}).(*orgservices.AuthzService)
	commissions := app.Service(financeservices.CommissionService{}).(*financeservices.CommissionService)
	profiles := orgpersistence.NewProfileRepository()
	workflow := configuration.Use().Workflow

	leadRepo := persistence.NewLeadRepository()
	requestRepo := persistence.NewClientRequestRepository()
	dealRepo := persistence.NewDealRepository()

	app.RegisterServices(
		services.NewLeadService(
			leadRepo,
			dealRepo,
			profiles,
			authz,
			commissions,
			app.EventPublisher(),
			ledger,
			workflow.LeadConvertProbability,
		),
		services.NewRequestService(
			requestRepo,
			dealRepo,
			profiles,
			authz,
			commissions,
			app.EventPublisher(),
			ledger,
			workflow.RequestConvertProbability,
		),
		services.NewDealService(dealRepo, authz, app.EventPublisher(), ledger),
	)
	app.RegisterControllers(
		controllers.NewCRMAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "crm"
}
