package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vms-e2e/pkg/models"
)

// Variables to hold flag values
var (
	alertCamera string
	alertID     string
)

// Parent Command
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage alerts",
	Long:  `List active alerts, raise new ones, and drive them through review and completion.`,
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active alerts of a camera",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		alerts, err := api.GetActiveAlerts(ctx, alertCamera)
		if err != nil {
			fmt.Printf("Warning: listing stopped early: %v\n", err)
		}

		if jsonOutput {
			printJSON(alerts)
			return
		}

		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ALERT ID\tCAMERA\tTIMESTAMP")
		fmt.Fprintln(w, "--------\t------\t---------")
		for _, a := range alerts {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.AlertID, a.CameraAP, a.Timestamp)
		}
		w.Flush()
	},
}

var alertsRaiseCmd = &cobra.Command{
	Use:     "raise",
	Short:   "Raise an alert on a camera",
	Example: `  vms-e2e alerts raise --camera "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0"`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		alert, err := api.InitiateAlert(ctx, alertCamera)
		if err != nil {
			fail("raising alert", err)
		}
		if jsonOutput {
			printJSON(alert)
			return
		}
		fmt.Printf("Alert %s raised on %s\n", alert.AlertID, alert.CameraAP)
	},
}

// alertVerb builds the begin/complete/cancel/process subcommands, which only
// differ in the client call.
func alertVerb(use, short string, call func(cmd *cobra.Command, alert *models.ActiveAlert) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			alert := &models.ActiveAlert{CameraAP: alertCamera, AlertID: alertID}
			if err := call(cmd, alert); err != nil {
				fail(use+" alert "+alertID, err)
			}
			fmt.Printf("Alert %s: %s done.\n", alertID, use)
		},
	}
}

var (
	alertsBeginCmd = alertVerb("begin", "Start reviewing an alert", func(cmd *cobra.Command, a *models.ActiveAlert) error {
		ctx, cancel := commandContext()
		defer cancel()
		return getClient().StartAlertHandle(ctx, *a)
	})
	alertsCompleteCmd = alertVerb("complete", "Complete an alert as a false alarm", func(cmd *cobra.Command, a *models.ActiveAlert) error {
		ctx, cancel := commandContext()
		defer cancel()
		return getClient().HandleAlert(ctx, a)
	})
	alertsCancelCmd = alertVerb("cancel", "Release the review of an alert", func(cmd *cobra.Command, a *models.ActiveAlert) error {
		ctx, cancel := commandContext()
		defer cancel()
		return getClient().CancelAlertHandle(ctx, *a)
	})
	alertsProcessCmd = alertVerb("process", "Begin and complete an alert", func(cmd *cobra.Command, a *models.ActiveAlert) error {
		ctx, cancel := commandContext()
		defer cancel()
		return getClient().AlarmFullProcessing(ctx, a)
	})
)

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd, alertsRaiseCmd)

	alertsListCmd.Flags().StringVar(&alertCamera, "camera", "", "Camera access point (empty lists all cameras)")
	alertsRaiseCmd.Flags().StringVar(&alertCamera, "camera", "", "Camera access point")
	_ = alertsRaiseCmd.MarkFlagRequired("camera")

	for _, c := range []*cobra.Command{alertsBeginCmd, alertsCompleteCmd, alertsCancelCmd, alertsProcessCmd} {
		alertsCmd.AddCommand(c)
		c.Flags().StringVar(&alertID, "id", "", "Alert ID")
		c.Flags().StringVar(&alertCamera, "camera", "", "Camera access point (informational)")
		_ = c.MarkFlagRequired("id")
	}
}
