package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vms-e2e/internal/client"
)

// Variables to hold flag values
var (
	cameraRef     string
	outputFile    string
	newCameraName string
	newCameraID   string
	newCameraStrm int32
)

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Manage cameras",
	Long:  `List cameras, create virtual cameras for tests, or take snapshots.`,
}

// List Command
var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cameras",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		cameras, err := api.ListCameras(ctx)
		if err != nil {
			fail("fetching cameras", err)
		}

		if jsonOutput {
			printJSON(cameras)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMODEL\tACTIVE\tDETECTORS\tACCESS POINT")
		fmt.Fprintln(w, "--\t----\t-----\t------\t---------\t------------")

		for _, cam := range cameras {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%s\n",
				cam.DisplayID,
				cam.DisplayName,
				cam.Model,
				cam.IsActivated,
				len(cam.Detectors),
				cam.AccessPoint,
			)
		}
		w.Flush()
	},
}

var camerasCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a virtual camera on the configured host",
	Example: `  vms-e2e cameras create --name "e2e-cam-1" --streams 2`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		uid, err := api.CreateVirtualCamera(ctx, client.VirtualCamera{
			DisplayID:   newCameraID,
			DisplayName: newCameraName,
			Streams:     newCameraStrm,
		})
		if err != nil {
			fail("creating camera", err)
		}
		fmt.Printf("Camera created: %s\n", uid)
	},
}

// Snapshot Command
var camerasSnapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Short:   "Take a JPEG snapshot from a camera",
	Example: `  vms-e2e cameras snapshot --camera "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0" --output image.jpg`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		imgData, err := api.GetSnapshot(ctx, cameraRef)
		if err != nil {
			fail("getting snapshot", err)
		}

		if err := os.WriteFile(outputFile, imgData, 0644); err != nil {
			fail("writing file", err)
		}

		fmt.Printf("Snapshot saved to %s (%s)\n", outputFile, humanize.Bytes(uint64(len(imgData))))
	},
}

func init() {
	// Register Parent
	rootCmd.AddCommand(camerasCmd)

	// Register Subcommands
	camerasCmd.AddCommand(camerasListCmd)
	camerasCmd.AddCommand(camerasCreateCmd)
	camerasCmd.AddCommand(camerasSnapshotCmd)

	camerasCreateCmd.Flags().StringVar(&newCameraName, "name", "", "Display name")
	camerasCreateCmd.Flags().StringVar(&newCameraID, "display-id", "", "Display ID (server picks one if empty)")
	camerasCreateCmd.Flags().Int32Var(&newCameraStrm, "streams", 1, "Number of video streams")
	_ = camerasCreateCmd.MarkFlagRequired("name")

	// Flags for Snapshot
	camerasSnapshotCmd.Flags().StringVar(&cameraRef, "camera", "", "Camera access point")
	camerasSnapshotCmd.Flags().StringVar(&outputFile, "output", "snapshot.jpg", "Output filename")
	_ = camerasSnapshotCmd.MarkFlagRequired("camera")
}
