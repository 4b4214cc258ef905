package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blockdex/internal/project"
	"github.com/ziadkadry99/blockdex/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the current project's indexed blocks",
	Long:  `Scores every indexed block against the query and prints the top documents with their matched blocks plus surrounding structure. Literal " AND " / " OR " in the query only change how it is labelled; every term matches independently.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "emit results as JSON")
	searchCmd.Flags().String("project", "", "project name or id (defaults to the current project)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	asJSON, _ := cmd.Flags().GetBool("json")
	projectArg, _ := cmd.Flags().GetString("project")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	projects := project.NewManager(st)
	p, err := resolveOrCurrent(projects, projectArg)
	if err != nil {
		return err
	}

	engine := search.NewEngine(st, projects)
	resp, err := engine.SearchProject(p, query)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printResults(resp)
	return nil
}

// printResults renders a search response for the terminal.
func printResults(resp *search.Response) {
	if len(resp.Results) == 0 {
		fmt.Printf("No results for %q in %s.\n", resp.Query, resp.Project)
		return
	}

	fmt.Printf("%s for %q in %s — %d document(s):\n", resp.Label, resp.Query, resp.Project, len(resp.Results))
	for _, r := range resp.Results {
		fmt.Printf("\n%s (score %.1f)\n", r.Document, r.Score)
		for _, b := range r.Blocks {
			title := b.Title
			if title == "" && b.Metadata != nil {
				title = b.Metadata.Name
			}
			fmt.Printf("  [%-9s] %4d-%-4d %s\n", b.Type, b.StartLine, b.EndLine, title)
			if b.Summary != "" {
				fmt.Printf("              %s\n", b.Summary)
			}
			if verbose && b.Content != "" {
				for _, line := range previewLines(b.Content, 3) {
					fmt.Printf("              | %s\n", line)
				}
			}
		}
	}
}

// previewLines returns up to n non-empty lines of content.
func previewLines(content string, n int) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}
