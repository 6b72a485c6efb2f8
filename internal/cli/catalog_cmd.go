package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asanchezr/consultor/internal/cli/formatter"
	"github.com/asanchezr/consultor/internal/knowledge"
)

func newCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [metodología]",
		Short: "Lista las metodologías conocidas o muestra el detalle de una",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintln(out, formatter.Header("Catálogo de metodologías"))
				fmt.Fprintln(out)
				for _, name := range knowledge.Names() {
					fmt.Fprintf(out, "  %s %s\n", formatter.Bold(name), formatter.Dim(knowledge.MethodBrief(name)))
				}
				return nil
			}

			m, ok := knowledge.Get(knowledge.Resolve(args[0]))
			if !ok {
				return fmt.Errorf("metodología desconocida: %s", args[0])
			}

			fmt.Fprintln(out, formatter.Header(m.Name))
			fmt.Fprintln(out)
			fmt.Fprintln(out, m.Vision)
			printList(out, "Encaja cuando", m.FitWhen)
			printList(out, "Evítala cuando", m.AvoidWhen)
			printList(out, "Prácticas", m.Practices)
			printList(out, "Riesgos típicos", m.Risks)

			if c, ok := knowledge.CurriculumFor(m.Name); ok {
				printList(out, "Ceremonias", c.Rituals)
				printList(out, "Métricas", c.Metrics)
			}

			if len(m.Sources) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.Bold("Fuentes"))
				for _, s := range m.Sources {
					fmt.Fprintf(out, "  - %s: %s (%d). %s\n", s.Author, s.Title, s.Year, formatter.Dim(s.URL))
				}
			}
			return nil
		},
	}
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("\n" + formatter.Bold(title) + "\n")
	for _, it := range items {
		b.WriteString("  - " + it + "\n")
	}
	fmt.Fprint(out, b.String())
}
