package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blockdex/internal/block"
	"github.com/ziadkadry99/blockdex/internal/config"
	"github.com/ziadkadry99/blockdex/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure blockdex and register the current directory as a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}

		projects := project.NewManager(st)
		p, err := projects.Create(cwd, "")
		if err != nil {
			// Already registered is fine; just select it.
			existing := findByPath(projects, cwd)
			if existing == nil {
				return err
			}
			p = existing
		}
		if err := projects.Select(p.ID); err != nil {
			return err
		}

		fmt.Printf("Project %q registered and selected. Run `blockdex index` to index it.\n", p.Name)
		return nil
	},
}

// findByPath returns the registered project rooted at path, or nil.
func findByPath(projects *project.Manager, path string) *block.Project {
	list, err := projects.List()
	if err != nil {
		return nil
	}
	for i := range list {
		if list[i].Path == path {
			return &list[i]
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
