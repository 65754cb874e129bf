package ledger

import (
	"embed"

	"github.com/pipecrest/brokerage/modules/ledger/infrastructure/persistence"
	"github.com/pipecrest/brokerage/modules/ledger/presentation/controllers"
	"github.com/pipecrest/brokerage/modules/ledger/services"
	"github.com/pipecrest/brokerage/pkg/application"
)

//go:embed infrastructure/persistence/schema/ledger-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewLedgerService(persistence.NewActivityLogRepository()),
	)
	app.RegisterControllers(
		controllers.NewLedgerAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "ledger"
}
