package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vms-e2e/internal/macro"
	"vms-e2e/pkg/models"
)

var (
	macroName      string
	macroDetector  string
	macroEvent     string
	macroArchive   string
	macroWaitMs    int
	macroCancelOn  string
	macroAutoClose string
	macroServer    string
	macroDisabled  bool
	macroGUIDs     string
	macroEnable    bool
)

var macrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "Manage macros",
	Long:  `Create recording and alarming macros, list them, switch them on/off or delete them.`,
}

var macrosCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a macro",
}

// submitMacro sends a built macro and prints its guid.
func submitMacro(m models.Macro) {
	api := getClient()
	ctx, cancel := commandContext()
	defer cancel()

	if err := api.CreateMacro(ctx, m); err != nil {
		fail("creating macro", err)
	}
	if jsonOutput {
		printJSON(m)
		return
	}
	fmt.Printf("Macro %q created: %s\n", m.Name, m.GUID)
}

func macroTrigger() macro.Trigger {
	return macro.Trigger{Detector: macroDetector, EventType: macroEvent}
}

func macroWait() macro.Wait {
	return macro.Wait{TimeoutMs: macroWaitMs, CancelOn: macroCancelOn}
}

var macrosRecordingCmd = &cobra.Command{
	Use:   "recording",
	Short: "Record the camera while a detector fires",
	Run: func(cmd *cobra.Command, args []string) {
		submitMacro(macro.DetectorRecording(macro.RecordingOptions{
			Name:     macroName,
			Trigger:  macroTrigger(),
			Camera:   cameraRef,
			Archive:  macroArchive,
			Wait:     macroWait(),
			Disabled: macroDisabled,
		}))
	},
}

var macrosAlarmingCmd = &cobra.Command{
	Use:   "alarming",
	Short: "Raise an alert when a detector fires",
	Run: func(cmd *cobra.Command, args []string) {
		submitMacro(macro.DetectorAlarming(macro.AlarmingOptions{
			Name:      macroName,
			Trigger:   macroTrigger(),
			Camera:    cameraRef,
			Archive:   macroArchive,
			Wait:      macroWait(),
			Disabled:  macroDisabled,
			AutoClose: macroAutoClose,
		}))
	},
}

var macrosCycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Raise alerts on a camera continuously",
	Run: func(cmd *cobra.Command, args []string) {
		server := macroServer
		if server == "" {
			server = loadConfig().HostName
		}
		submitMacro(macro.CycleAlarming(macro.AlarmingOptions{
			Name:      macroName,
			Camera:    cameraRef,
			Archive:   macroArchive,
			Wait:      macroWait(),
			Disabled:  macroDisabled,
			AutoClose: macroAutoClose,
			Server:    server,
		}))
	},
}

var macrosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List macros",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		macros, err := api.ListMacros(ctx)
		if err != nil {
			fail("fetching macros", err)
		}

		if jsonOutput {
			printJSON(macros)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "GUID\tNAME\tENABLED\tMODE\tRULES")
		fmt.Fprintln(w, "----\t----\t-------\t----\t-----")
		for _, m := range macros {
			mode := "common"
			if m.Mode.Continuous != nil {
				mode = "continuous"
			}
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%d\n", m.GUID, m.Name, m.Mode.Enabled, mode, len(m.Rules))
		}
		w.Flush()
	},
}

var macrosToggleCmd = &cobra.Command{
	Use:     "toggle",
	Short:   "Switch macros on or off",
	Example: `  vms-e2e macros toggle --guids "guid1,guid2" --enable=false`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		want := make(map[string]bool)
		for _, g := range splitList(macroGUIDs) {
			want[g] = true
		}
		macros, err := api.ListMacros(ctx)
		if err != nil {
			fail("fetching macros", err)
		}
		changed := 0
		for _, m := range macros {
			if !want[m.GUID] {
				continue
			}
			if err := api.SetMacroEnabled(ctx, m, macroEnable); err != nil {
				fail("modifying macro", err)
			}
			changed++
		}
		fmt.Printf("%d macro(s) updated.\n", changed)
	},
}

var macrosDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete macros by guid",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		guids := splitList(macroGUIDs)
		if len(guids) == 0 {
			fmt.Println("Error: No valid macro GUIDs provided.")
			os.Exit(1)
		}
		if err := api.DeleteMacros(ctx, guids...); err != nil {
			fail("deleting macros", err)
		}
		fmt.Printf("%d macro(s) deleted.\n", len(guids))
	},
}

func init() {
	rootCmd.AddCommand(macrosCmd)
	macrosCmd.AddCommand(macrosCreateCmd, macrosListCmd, macrosToggleCmd, macrosDeleteCmd)
	macrosCreateCmd.AddCommand(macrosRecordingCmd, macrosAlarmingCmd, macrosCycleCmd)

	for _, c := range []*cobra.Command{macrosRecordingCmd, macrosAlarmingCmd, macrosCycleCmd} {
		c.Flags().StringVar(&macroName, "name", "", "Macro name (generated if empty)")
		c.Flags().StringVar(&cameraRef, "camera", "", "Camera access point")
		c.Flags().StringVar(&macroArchive, "archive", "", "Archive access point")
		c.Flags().IntVar(&macroWaitMs, "wait-ms", 0, "Add a wait rule of this length")
		c.Flags().BoolVar(&macroDisabled, "disabled", false, "Create the macro switched off")
		_ = c.MarkFlagRequired("camera")
	}
	for _, c := range []*cobra.Command{macrosRecordingCmd, macrosAlarmingCmd} {
		c.Flags().StringVar(&macroDetector, "detector", "", "Detector access point that triggers the macro")
		c.Flags().StringVar(&macroEvent, "event", macro.DefaultEventType, "Detector event type")
		c.Flags().StringVar(&macroCancelOn, "cancel-on", "", "Detector state that aborts the wait (BEGAN, ENDED, HAPPENED)")
		_ = c.MarkFlagRequired("detector")
	}
	for _, c := range []*cobra.Command{macrosAlarmingCmd, macrosCycleCmd} {
		c.Flags().StringVar(&macroAutoClose, "auto-close", "", "Close the alert with this severity (SV_FALSE, SV_WARNING, SV_ALARM)")
	}
	macrosCycleCmd.Flags().StringVar(&macroServer, "server", "", "Node running the macro (defaults to host_name)")

	macrosToggleCmd.Flags().StringVar(&macroGUIDs, "guids", "", "Comma separated list of macro GUIDs")
	macrosToggleCmd.Flags().BoolVar(&macroEnable, "enable", true, "Enable (true) or disable (false)")
	_ = macrosToggleCmd.MarkFlagRequired("guids")

	macrosDeleteCmd.Flags().StringVar(&macroGUIDs, "guids", "", "Comma separated list of macro GUIDs")
	_ = macrosDeleteCmd.MarkFlagRequired("guids")
}
