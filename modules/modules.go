package modules

import (
	"github.com/pipecrest/brokerage/modules/crm"
	"github.com/pipecrest/brokerage/modules/finance"
	"github.com/pipecrest/brokerage/modules/ledger"
	"github.com/pipecrest/brokerage/modules/org"
	"github.com/pipecrest/brokerage/pkg/application"
)

// BuiltInModules in registration order. The ledger carries no
// dependencies of its own and loads first; org supplies authorization
// to finance, and crm consumes all three.
var BuiltInModules = []application.Module{
	ledger.NewModule(),
	org.NewModule(),
	finance.NewModule(),
	crm.NewModule(),
}

func Load(app application.Application, modules ...application.Module) error {
	return application.Load(app, modules...)
}
