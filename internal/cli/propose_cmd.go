package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asanchezr/consultor/internal/cli/formatter"
	"github.com/asanchezr/consultor/internal/knowledge"
)

func newProposeCmd(app *App) *cobra.Command {
	var (
		sessionID string
		method    string
	)

	cmd := &cobra.Command{
		Use:   "propose [requisitos...]",
		Short: "Genera una propuesta completa a partir de los requisitos",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			requirements := strings.TrimSpace(strings.Join(args, " "))

			if requirements == "" {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return fmt.Errorf("faltan los requisitos: pásalos como argumento o ejecuta en un terminal")
				}
				var err error
				requirements, method, err = askProposalForm(method)
				if err != nil {
					return err
				}
			}

			ctx := context.Background()
			_, _ = app.Engine.GenerateReply(ctx, sessionID, "/propuesta: "+requirements)
			if method != "" {
				if !knowledge.Known(method) {
					return fmt.Errorf("metodología desconocida: %s", method)
				}
				_, _ = app.Engine.GenerateReply(ctx, sessionID, "/cambiar: "+method)
			}

			p, _, ok := app.Engine.GetLastProposal(sessionID)
			if !ok {
				return fmt.Errorf("no se pudo generar la propuesta")
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProposal(p))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Sesión: "+sessionID))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Identificador de sesión (por defecto, uno nuevo)")
	cmd.Flags().StringVar(&method, "metodologia", "", "Fuerza una metodología en lugar de la recomendada")
	return cmd
}

// askProposalForm collects requirements and an optional methodology override.
func askProposalForm(preselected string) (requirements, method string, err error) {
	method = preselected

	options := []huh.Option[string]{huh.NewOption("(recomendada automáticamente)", "")}
	for _, name := range knowledge.Names() {
		options = append(options, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Requisitos del proyecto").
				Placeholder("p. ej. app de pagos con panel admin y auditoría").
				Value(&requirements).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("describe al menos una línea de requisitos")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Metodología").
				Options(options...).
				Value(&method),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(requirements), method, nil
}
