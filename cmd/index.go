package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blockdex/internal/block"
	"github.com/ziadkadry99/blockdex/internal/indexer"
	"github.com/ziadkadry99/blockdex/internal/parser"
	"github.com/ziadkadry99/blockdex/internal/progress"
	"github.com/ziadkadry99/blockdex/internal/project"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the current project's files into searchable blocks",
	Long:  `Discovers text files under the project root, parses them into hierarchical blocks, optionally summarizes them with the configured LLM, and replaces the project's persisted index.`,
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().Bool("summaries", false, "generate LLM summaries during indexing")
	indexCmd.Flags().Int("concurrency", 0, "max parallel file workers (overrides config)")
	indexCmd.Flags().String("project", "", "project name or id (defaults to the current project)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = cfg.MaxConcurrency
	}
	withSummaries, _ := cmd.Flags().GetBool("summaries")
	projectArg, _ := cmd.Flags().GetString("project")

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	summarizer, err := newSummarizer(cfg)
	if err != nil {
		return err
	}

	projects := project.NewManager(st)
	p, err := resolveOrCurrent(projects, projectArg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Indexing %s (%s)...\n", p.Name, p.Path)
	}

	ix := indexer.New(st, parser.NewRegistry(), projects, summarizer)

	reporter := progress.NewReporter()
	started := false
	res, err := ix.IndexProject(context.Background(), p.ID, indexer.Options{
		WithSummaries: withSummaries,
		Include:       cfg.Include,
		Exclude:       cfg.Exclude,
		Concurrency:   concurrency,
		MaxFileSize:   cfg.MaxFileSize,
		Progress: func(done, total int, path string) {
			if !started {
				reporter.Start(total)
				started = true
			}
			reporter.Update(done, path)
		},
	})
	if started {
		reporter.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Indexing complete!")
	fmt.Printf("  Files found:    %d\n", res.FilesFound)
	fmt.Printf("  Files indexed:  %d\n", res.FilesIndexed)
	fmt.Printf("  Blocks indexed: %d\n", res.BlocksIndexed)
	if res.SummaryCost > 0 {
		fmt.Printf("  Summary cost:   $%.4f\n", res.SummaryCost)
	}
	fmt.Printf("  Duration:       %s\n", res.Duration.Round(time.Millisecond))

	if len(res.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "\nWarnings (%d):\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
	}
	return nil
}

// resolveOrCurrent resolves a --project argument, falling back to the
// current project when it is empty.
func resolveOrCurrent(projects *project.Manager, arg string) (*block.Project, error) {
	if arg != "" {
		return projects.Resolve(arg)
	}
	return projects.Current()
}
