package relationshipservice

import (
	"log/slog"

	httpadapter "rookery/contexts/social-graph/relationship-service/adapters/http"
	"rookery/contexts/social-graph/relationship-service/adapters/memory"
	"rookery/contexts/social-graph/relationship-service/application/commands"
	"rookery/contexts/social-graph/relationship-service/application/queries"
	"rookery/contexts/social-graph/relationship-service/domain/entities"
	"rookery/contexts/social-graph/relationship-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Relationships ports.RelationshipRepository
	Notifications ports.NotificationRepository
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	relationshipUseCase := commands.RelationshipUseCase{
		Relationships: deps.Relationships,
		Outbox:        deps.Outbox,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	queryUseCase := queries.RelationshipQueryUseCase{
		Relationships: deps.Relationships,
		Notifications: deps.Notifications,
	}
	return Module{
		Handler: httpadapter.Handler{
			Relationships: relationshipUseCase,
			Queries:       queryUseCase,
			Logger:        deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Relationship, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Relationships: store,
		Notifications: store,
		Outbox:        store,
		Clock:         store,
		IDGen:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
