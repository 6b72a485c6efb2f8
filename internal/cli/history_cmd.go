package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asanchezr/consultor/internal/cli/formatter"
	"github.com/asanchezr/consultor/internal/repository"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		showMessages bool
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "history <sesión>",
		Short: "Muestra las propuestas guardadas de una sesión (y, opcionalmente, la conversación)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Proposals == nil {
				return fmt.Errorf("el historial requiere base de datos")
			}
			sessionID := args[0]
			ctx := context.Background()
			out := cmd.OutOrStdout()

			records, err := app.Proposals.ListBySession(ctx, sessionID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, formatter.Dim("Sin propuestas guardadas para la sesión "+sessionID))
			}
			for i, rec := range records {
				fmt.Fprintln(out, formatter.Header(fmt.Sprintf("Propuesta %d — %s", i+1, rec.CreatedAt.Local().Format("2006-01-02 15:04"))))
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.Dim("Requisitos: "+rec.Requirements))
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.FormatProposal(rec.Proposal))
			}

			if showMessages && app.Messages != nil {
				msgs, err := app.Messages.ListBySession(ctx, sessionID, limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.Header("Conversación"))
				fmt.Fprintln(out)
				for _, m := range msgs {
					label := formatter.StyleBlue.Render("tú:        ")
					if m.Role == "assistant" {
						label = formatter.StyleGreen.Render("consultor: ")
					}
					fmt.Fprintln(out, label+m.Content)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMessages, "messages", false, "Incluye la transcripción de la conversación")
	cmd.Flags().IntVar(&limit, "limit", 0, "Máximo de mensajes a mostrar (0 = todos)")
	return cmd
}
