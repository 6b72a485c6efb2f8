package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asanchezr/consultor/internal/cli/formatter"
	"github.com/asanchezr/consultor/internal/knowledge"
)

func newRecommendCmd(app *App) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "recommend <requisitos...>",
		Short: "Puntúa las metodologías frente a unos requisitos, sin generar propuesta",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			ranking := knowledge.Score(text)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, formatter.FormatRanking(ranking))

			if explain && len(ranking) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.Bold("Por qué "+ranking[0].Method))
				for _, line := range knowledge.Explain(text, ranking[0].Method) {
					fmt.Fprintln(out, "  - "+line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Explica en detalle la metodología mejor puntuada")
	return cmd
}
