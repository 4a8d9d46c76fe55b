package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vms-e2e/internal/layout"
)

var (
	layoutName    string
	layoutWidth   int
	layoutHeight  int
	layoutCameras string
	layoutSpecial []string
	layoutURL     string
	layoutFile    string
	layoutAlarm   bool
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "Manage layouts",
}

var layoutsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a grid layout",
	Long: `Create a width x height layout filled row by row with cameras. Cells can
show a board instead of video with --special POSITION=TYPE, where TYPE is
web-panel, event-board or statistics-panel.`,
	Example: `  vms-e2e layouts create --name Base --width 2 --height 2 --cameras "ap1,ap2,ap3,ap4"
  vms-e2e layouts create --name Boards --width 2 --height 1 --cameras ap1 --special 1=event-board
  vms-e2e layouts create --file layout.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var fixture *layout.Fixture
		if layoutFile != "" {
			f, err := layout.LoadFixture(layoutFile)
			if err != nil {
				fail("loading layout file", err)
			}
			fixture = f
		} else {
			special := make(map[int]layout.BoardType, len(layoutSpecial))
			for _, s := range layoutSpecial {
				pos, board, ok := strings.Cut(s, "=")
				k, err := strconv.Atoi(pos)
				if !ok || err != nil {
					fail("parsing --special", fmt.Errorf("expected POSITION=TYPE, got %q", s))
				}
				special[k] = layout.BoardType(board)
			}
			fixture = &layout.Fixture{
				Name:        layoutName,
				Width:       layoutWidth,
				Height:      layoutHeight,
				Cameras:     splitList(layoutCameras),
				Special:     special,
				WebPanelURL: layoutURL,
				ForAlarm:    layoutAlarm,
			}
		}

		l, err := fixture.Build()
		if err != nil {
			fail("building layout", err)
		}

		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		id, err := api.CreateLayout(ctx, l)
		if err != nil {
			fail("creating layout", err)
		}
		if jsonOutput {
			printJSON(l)
			return
		}
		fmt.Printf("Layout %q created: %s (%d cells)\n", l.DisplayName, id, len(l.Cells))
	},
}

var layoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List layouts",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		layouts, err := api.ListLayouts(ctx)
		if err != nil {
			fail("fetching layouts", err)
		}

		if jsonOutput {
			printJSON(layouts)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCELLS\tFOR ALARM")
		fmt.Fprintln(w, "--\t----\t-----\t---------")
		for _, l := range layouts {
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", l.ID, l.DisplayName, len(l.Cells), l.IsForAlarm)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(layoutsCmd)
	layoutsCmd.AddCommand(layoutsCreateCmd, layoutsListCmd)

	layoutsCreateCmd.Flags().StringVar(&layoutName, "name", "", "Layout name")
	layoutsCreateCmd.Flags().IntVar(&layoutWidth, "width", 2, "Columns")
	layoutsCreateCmd.Flags().IntVar(&layoutHeight, "height", 2, "Rows")
	layoutsCreateCmd.Flags().StringVar(&layoutCameras, "cameras", "", "Comma separated camera access points, in cell order")
	layoutsCreateCmd.Flags().StringArrayVar(&layoutSpecial, "special", nil, "Board cell as POSITION=TYPE (repeatable)")
	layoutsCreateCmd.Flags().StringVar(&layoutURL, "web-panel-url", "", "URL shown by web-panel cells")
	layoutsCreateCmd.Flags().BoolVar(&layoutAlarm, "for-alarm", false, "Mark the layout as an alarm layout")
	layoutsCreateCmd.Flags().StringVar(&layoutFile, "file", "", "YAML layout description (overrides the other flags)")
}
