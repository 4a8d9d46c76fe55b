package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cleanupPrefix string
	cleanupWhat   []string
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete test objects from the server",
	Long: `Deletes cameras, archives, layouts and macros whose name starts with the
prefix (everything when the prefix is empty). The default archive is kept.`,
	Example: `  vms-e2e cleanup --prefix e2e-
  vms-e2e cleanup --only layouts,macros`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		steps := []struct {
			name string
			run  func(context.Context, string) (int, error)
		}{
			{"macros", api.AnnihilateMacros},
			{"layouts", api.AnnihilateLayouts},
			{"cameras", api.AnnihilateCameras},
			{"archives", api.AnnihilateArchives},
		}

		only := make(map[string]bool)
		for _, w := range cleanupWhat {
			only[w] = true
		}

		failed := false
		for _, step := range steps {
			if len(only) > 0 && !only[step.name] {
				continue
			}
			n, err := step.run(ctx, cleanupPrefix)
			if err != nil {
				fmt.Printf("Error removing %s: %v\n", step.name, err)
				failed = true
				continue
			}
			fmt.Printf("Removed %d %s.\n", n, step.name)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().StringVar(&cleanupPrefix, "prefix", "", "Only delete objects whose name starts with this")
	cleanupCmd.Flags().StringSliceVar(&cleanupWhat, "only", nil, "Restrict to: cameras, archives, layouts, macros")
}
