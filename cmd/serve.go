package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blockdex/internal/indexer"
	mcpserver "github.com/ziadkadry99/blockdex/internal/mcp"
	"github.com/ziadkadry99/blockdex/internal/parser"
	"github.com/ziadkadry99/blockdex/internal/project"
	"github.com/ziadkadry99/blockdex/internal/search"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing block search and indexing tools for AI agents like Claude Code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

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
		engine := search.NewEngine(st, projects)
		ix := indexer.New(st, parser.NewRegistry(), projects, summarizer)

		mcpserver.Version = Version
		fmt.Fprintln(os.Stderr, "blockdex MCP server started on stdio")

		srv := mcpserver.NewServer(st, projects, engine, ix)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
