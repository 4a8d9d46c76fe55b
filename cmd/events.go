package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vms-e2e/pkg/models"
)

var (
	eventSince string
	eventLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Search detector events",
	Long:  `Search the archive for detector events of a camera over a time range.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detector events from history",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		duration, err := time.ParseDuration(eventSince)
		if err != nil {
			fail("parsing duration", err)
		}
		to := time.Now().UTC()
		from := to.Add(-duration)

		events, err := api.GetDetectorEvents(ctx, cameraRef, from, to, eventLimit)
		if err != nil {
			fail("fetching events", err)
		}

		if jsonOutput {
			printJSON(events)
			return
		}

		if len(events) == 0 {
			fmt.Println("No events found in this time range.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tAGE\tTYPE\tPHASE\tSOURCE")
		fmt.Fprintln(w, "---------\t---\t----\t-----\t------")

		for _, e := range events {
			ts, age := e.Timestamp, ""
			if t, err := time.Parse(models.EventTimeFormat, e.Timestamp); err == nil {
				ts = t.Local().Format("2006-01-02 15:04:05")
				age = humanize.Time(t)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ts, age, e.Type, e.Phase, e.Source)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd)

	eventsListCmd.Flags().StringVar(&cameraRef, "camera", "", "Camera access point")
	eventsListCmd.Flags().StringVar(&eventSince, "since", "1h", "Look back duration (e.g. 30m, 1h, 24h)")
	eventsListCmd.Flags().IntVar(&eventLimit, "limit", 100, "Maximum number of events")
	_ = eventsListCmd.MarkFlagRequired("camera")
}
