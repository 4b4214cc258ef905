package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blockdex",
	Short: "Index project files into searchable, hierarchical blocks",
	Long: `Blockdex parses Markdown, source code, stylesheets and YAML into a
hierarchy of typed blocks, optionally summarizes them with an LLM, and
answers free-text queries with ranked, context-expanded results. It
integrates with AI agents via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".blockdex.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
