package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blockdex/internal/project"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List registered projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProjects(func(projects *project.Manager) error {
			list, err := projects.List()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No projects registered. Run `blockdex init` in a project directory.")
				return nil
			}

			current, _ := projects.Current()
			for _, p := range list {
				marker := " "
				if current != nil && current.ID == p.ID {
					marker = "*"
				}
				status := "not indexed"
				if p.Indexed {
					status = "indexed " + time.UnixMilli(p.LastIndexed).Format("2006-01-02 15:04")
					if p.HasSummaries {
						status += ", summaries"
					}
				}
				fmt.Printf("%s %-20s %s [%s]\n", marker, p.Name, p.Path, status)
			}
			return nil
		})
	},
}

var projectsSwitchCmd = &cobra.Command{
	Use:   "switch <name|id>",
	Short: "Select the current project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProjects(func(projects *project.Manager) error {
			p, err := projects.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := projects.Select(p.ID); err != nil {
				return err
			}
			fmt.Printf("Switched to project %q.\n", p.Name)
			return nil
		})
	},
}

var projectsRemoveCmd = &cobra.Command{
	Use:   "remove <name|id>",
	Short: "Remove a project and its index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProjects(func(projects *project.Manager) error {
			p, err := projects.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := projects.Delete(p.ID); err != nil {
				return err
			}
			fmt.Printf("Removed project %q and its index.\n", p.Name)
			return nil
		})
	},
}

// withProjects opens the store, builds a project manager, and runs fn.
func withProjects(fn func(*project.Manager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(project.NewManager(st))
}

func init() {
	projectsCmd.AddCommand(projectsSwitchCmd)
	projectsCmd.AddCommand(projectsRemoveCmd)
	rootCmd.AddCommand(projectsCmd)
}
