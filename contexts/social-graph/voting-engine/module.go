package votingengine

import (
	"log/slog"

	httpadapter "rookery/contexts/social-graph/voting-engine/adapters/http"
	"rookery/contexts/social-graph/voting-engine/adapters/memory"
	"rookery/contexts/social-graph/voting-engine/application/commands"
	"rookery/contexts/social-graph/voting-engine/application/queries"
	"rookery/contexts/social-graph/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Votes  ports.VoteRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Votes:  deps.Votes,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	queryUseCase := queries.AggregateUseCase{
		Votes: deps.Votes,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:   voteUseCase,
			Queries: queryUseCase,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(subjectIDs []string, logger *slog.Logger) Module {
	store := memory.NewStore()
	for _, subjectID := range subjectIDs {
		store.SetSubject(subjectID)
	}
	module := NewModule(Dependencies{
		Votes:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
