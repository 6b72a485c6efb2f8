package cli

import (
	"github.com/spf13/cobra"

	"github.com/asanchezr/consultor/internal/engine"
	"github.com/asanchezr/consultor/internal/repository"
)

// App holds the dependencies CLI commands run against.
type App struct {
	Engine    *engine.Engine
	Proposals repository.ProposalLogRepo
	Messages  repository.MessageRepo

	// IsInteractive reports whether stdin is a terminal; the chat command
	// falls back to line mode when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "consultor" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "consultor",
		Short: "Consultor de metodologías: propuestas de proyecto con equipo, fases y presupuesto",
	}

	root.AddCommand(
		newChatCmd(app),
		newProposeCmd(app),
		newRecommendCmd(app),
		newCatalogCmd(app),
		newHistoryCmd(app),
	)

	return root
}
