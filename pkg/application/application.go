package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"reflect"
	"sort"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/pipecrest/brokerage/pkg/eventbus"
)

// Controller registers its routes on the shared router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module is a self-contained feature unit: schema, services and
// controllers registered as one.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	Pool() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	Middleware() []mux.MiddlewareFunc

	Migrations() *SchemaRegistry
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:       opts.Pool,
		eventBus:   opts.EventBus,
		logger:     opts.Logger,
		services:   map[reflect.Type]interface{}{},
		migrations: &SchemaRegistry{},
	}
}

// Load registers all modules into the application.
func Load(app Application, modules ...Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return fmt.Errorf("failed to register module %s: %w", module.Name(), err)
		}
	}
	return nil
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	services    map[reflect.Type]interface{}
	controllers []Controller
	middleware  []mux.MiddlewareFunc
	migrations  *SchemaRegistry
}

func (a *application) Pool() *pgxpool.Pool               { return a.pool }
func (a *application) EventPublisher() eventbus.EventBus { return a.eventBus }
func (a *application) Logger() *logrus.Logger            { return a.logger }
func (a *application) Migrations() *SchemaRegistry       { return a.migrations }
func (a *application) Controllers() []Controller         { return a.controllers }
func (a *application) Middleware() []mux.MiddlewareFunc  { return a.middleware }
func (a *application) Services() map[reflect.Type]interface{} {
	return a.services
}

func (a *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		a.services[reflect.TypeOf(service).Elem()] = service
	}
}

// Service returns the registered service with the same type as the
// given sample value. Panics when the module wiring forgot to register
// it: that is a programming error, not a runtime condition.
func (a *application) Service(service interface{}) interface{} {
	svc, ok := a.services[reflect.TypeOf(service)]
	if !ok {
		panic(fmt.Sprintf("service %s not found", reflect.TypeOf(service).Name()))
	}
	return svc
}

func (a *application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	a.middleware = append(a.middleware, middleware...)
}

// SchemaRegistry collects the per-module embedded schema files and
// applies them at startup in registration order.
type SchemaRegistry struct {
	schemas []*embed.FS
}

func (s *SchemaRegistry) RegisterSchema(fsys *embed.FS) {
	s.schemas = append(s.schemas, fsys)
}

func (s *SchemaRegistry) Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, fsys := range s.schemas {
		files := make([]string, 0)
		err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return err
		}
		sort.Strings(files)
		for _, file := range files {
			contents, err := fsys.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read schema %s: %w", file, err)
			}
			if _, err := pool.Exec(ctx, string(contents)); err != nil {
				return fmt.Errorf("failed to apply schema %s: %w", file, err)
			}
		}
	}
	return nil
}
