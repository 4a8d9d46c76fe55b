package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vms-e2e/internal/client"
	"vms-e2e/internal/configuration"
	"vms-e2e/pkg/models"
)

var (
	detKind     string
	detName     string
	detInput    string
	detPeriodMs int32
	detDisabled bool
	detParent   string
	detUID      string
	detProps    []string
)

var detectorsCmd = &cobra.Command{
	Use:   "detectors",
	Short: "Manage detectors",
	Long:  `Create, change and list video/audio detectors and their child (AppData) detectors.`,
}

var detectorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detector units of every camera",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configuration.New(getClient())
		ctx, cancel := commandContext()
		defer cancel()

		if err := cfg.Refresh(ctx, configuration.Cameras, configuration.Detectors); err != nil {
			fail("fetching detectors", err)
		}
		units := cfg.Detectors()

		if jsonOutput {
			printJSON(units)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "UID\tTYPE\tKIND\tNAME\tENABLED")
		fmt.Fprintln(w, "---\t----\t----\t----\t-------")
		for _, u := range units {
			kind, _ := u.Property("detector")
			name, _ := u.Property("display_name")
			enabled, _ := u.Property("enabled")
			fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%v\n", u.UID, u.Type, kind.Value(), name.Value(), enabled.Value())
		}
		w.Flush()
	},
}

var detectorsCreateAVCmd = &cobra.Command{
	Use:     "create-av",
	Short:   "Attach a video/audio detector to a camera",
	Example: `  vms-e2e detectors create-av --camera "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0" --kind MotionDetection`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configuration.New(getClient())
		ctx, cancel := commandContext()
		defer cancel()

		uid, err := cfg.CreateAVDetector(ctx, client.AVDetectorSpec{
			CameraAP: cameraRef,
			Kind:     detKind,
			Name:     detName,
			Input:    detInput,
			PeriodMs: detPeriodMs,
			Disabled: detDisabled,
		})
		if err != nil {
			fail("creating detector", err)
		}
		fmt.Printf("Detector created: %s\n", uid)
	},
}

var detectorsCreateAppDataCmd = &cobra.Command{
	Use:     "create-appdata",
	Short:   "Attach a child detector (zones, lines) to a detector",
	Example: `  vms-e2e detectors create-appdata --parent hosts/Server1/AVDetector.1 --kind MoveInZone`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configuration.New(getClient())
		ctx, cancel := commandContext()
		defer cancel()

		uid, err := cfg.CreateAppDataDetector(ctx, client.AppDataDetectorSpec{
			ParentUID: detParent,
			Kind:      detKind,
			Name:      detName,
			Disabled:  detDisabled,
		})
		if err != nil {
			fail("creating detector", err)
		}
		fmt.Printf("Detector created: %s\n", uid)
	},
}

var detectorsChangeCmd = &cobra.Command{
	Use:     "change",
	Short:   "Change detector properties",
	Example: `  vms-e2e detectors change --uid hosts/Server1/AVDetector.1 --set enabled=false --set sensitivity=0.7`,
	Run: func(cmd *cobra.Command, args []string) {
		props := make([]models.Property, 0, len(detProps))
		for _, kv := range detProps {
			p, err := parseProperty(kv)
			if err != nil {
				fail("parsing --set", err)
			}
			props = append(props, p)
		}

		cfg := configuration.New(getClient())
		ctx, cancel := commandContext()
		defer cancel()

		if err := cfg.ChangeDetector(ctx, detUID, props...); err != nil {
			fail("changing detector", err)
		}

		u, ok := cfg.Detector(detUID)
		if !ok {
			fmt.Println("Detector changed (not visible in the camera list).")
			return
		}
		if jsonOutput {
			printJSON(u)
			return
		}
		for _, p := range props {
			got, _ := u.Property(p.ID)
			fmt.Printf("%s = %v\n", p.ID, got.Value())
		}
	},
}

// parseProperty turns id=value into a typed property. Booleans, integers and
// floats are detected in that order; anything else is a string.
func parseProperty(kv string) (models.Property, error) {
	id, raw, ok := strings.Cut(kv, "=")
	if !ok || id == "" {
		return models.Property{}, fmt.Errorf("expected id=value, got %q", kv)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return models.BoolProperty(id, b), nil
	}
	if i, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return models.Int32Property(id, int32(i)), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return models.DoubleProperty(id, f), nil
	}
	return models.StringProperty(id, raw), nil
}

func init() {
	rootCmd.AddCommand(detectorsCmd)
	detectorsCmd.AddCommand(detectorsListCmd, detectorsCreateAVCmd, detectorsCreateAppDataCmd, detectorsChangeCmd)

	detectorsCreateAVCmd.Flags().StringVar(&cameraRef, "camera", "", "Camera access point")
	detectorsCreateAVCmd.Flags().StringVar(&detKind, "kind", "MotionDetection", "Detector kind")
	detectorsCreateAVCmd.Flags().StringVar(&detName, "name", "", "Display name (defaults to the kind)")
	detectorsCreateAVCmd.Flags().StringVar(&detInput, "input", "Video", "Input stream: Video or Audio")
	detectorsCreateAVCmd.Flags().Int32Var(&detPeriodMs, "period-ms", 0, "Analysis period in ms (0 keeps the server default)")
	detectorsCreateAVCmd.Flags().BoolVar(&detDisabled, "disabled", false, "Create the detector switched off")
	_ = detectorsCreateAVCmd.MarkFlagRequired("camera")

	detectorsCreateAppDataCmd.Flags().StringVar(&detParent, "parent", "", "Parent detector uid")
	detectorsCreateAppDataCmd.Flags().StringVar(&detKind, "kind", "MoveInZone", "Detector kind")
	detectorsCreateAppDataCmd.Flags().StringVar(&detName, "name", "", "Display name (defaults to the kind)")
	detectorsCreateAppDataCmd.Flags().BoolVar(&detDisabled, "disabled", false, "Create the detector switched off")
	_ = detectorsCreateAppDataCmd.MarkFlagRequired("parent")

	detectorsChangeCmd.Flags().StringVar(&detUID, "uid", "", "Detector uid")
	detectorsChangeCmd.Flags().StringArrayVar(&detProps, "set", nil, "Property to set as id=value (repeatable)")
	_ = detectorsChangeCmd.MarkFlagRequired("uid")
	_ = detectorsChangeCmd.MarkFlagRequired("set")
}
