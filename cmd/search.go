package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"threejs-mcp/internal/sketchfab"
)

var searchLimit int

// searchCmd queries the Sketchfab catalog from the terminal. It exists for
// quick inspection of what the MCP search tool would return.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the Sketchfab catalog for 3D models",
	Long: `Searches Sketchfab for models matching the query and prints the
downloadable results as a table. The same provider call backs the MCP
search tool.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	initLogging()

	catalog, _, err := newCatalogClient()
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}

	models := catalog.Search(cmd.Context(), args[0], searchLimit)
	if len(models) == 0 {
		fmt.Println("No downloadable models found.")
		return nil
	}

	renderModelTable(models)
	return nil
}

// renderModelTable prints search results in a rounded table.
func renderModelTable(models []sketchfab.ModelSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"UID", "Name", "Author", "Viewer URL"})
	for _, m := range models {
		t.AppendRow(table.Row{m.UID, text.WrapSoft(m.Name, 40), m.User, m.ViewerURL})
	}
	t.Render()
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", sketchfab.SearchLimitDefault, "Maximum number of results (capped at 24)")
	rootCmd.AddCommand(searchCmd)
}
