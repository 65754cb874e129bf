package finance

import (
	"embed"

	"github.com/pipecrest/brokerage/modules/finance/infrastructure/persistence"
	"github.com/pipecrest/brokerage/modules/finance/presentation/controllers"
	"github.com/pipecrest/brokerage/modules/finance/services"
	ledgerservices "github.com/pipecrest/brokerage/modules/ledger/services"
	orgservices "github.com/pipecrest/brokerage/modules/org/services"
	"github.com/pipecrest/brokerage/pkg/application"
)

//go:embed infrastructure/persistence/schema/finance-schema.sql
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

	app.RegisterServices(
		services.NewCommissionService(persistence.NewCommissionRepository(), authz, ledger),
		services.NewSalaryService(persistence.NewSalaryRepository(), authz, ledger),
		services.NewCostService(persistence.NewCostEntryRepository(), authz, ledger),
	)
	app.RegisterControllers(
		controllers.NewFinanceAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "finance"
}
