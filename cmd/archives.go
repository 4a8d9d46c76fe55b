package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	archiveName   string
	archiveSizeGB int32
	archiveAP     string
)

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "Manage archives",
}

var archivesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archives",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		archives, err := api.ListArchives(ctx)
		if err != nil {
			fail("fetching archives", err)
		}

		if jsonOutput {
			printJSON(archives)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tDEFAULT\tEMBEDDED\tACCESS POINT")
		fmt.Fprintln(w, "----\t-------\t--------\t------------")
		for _, a := range archives {
			fmt.Fprintf(w, "%s\t%t\t%t\t%s\n", a.DisplayName, a.IsDefault, a.IsEmbedded, a.AccessPoint)
		}
		w.Flush()
	},
}

var archivesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an archive on the configured host",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		uid, err := api.CreateArchive(ctx, archiveName, archiveSizeGB)
		if err != nil {
			fail("creating archive", err)
		}
		fmt.Printf("Archive created: %s\n", uid)
	},
}

var archivesBindCmd = &cobra.Command{
	Use:     "bind",
	Short:   "Bind a camera to an archive",
	Example: `  vms-e2e archives bind --camera "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0" --archive "hosts/Server1/MultimediaStorage.Black/MultimediaStorage"`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		if err := api.BindArchive(ctx, cameraRef, archiveAP); err != nil {
			fail("binding archive", err)
		}
		fmt.Println("Archive bound.")
	},
}

func init() {
	rootCmd.AddCommand(archivesCmd)
	archivesCmd.AddCommand(archivesListCmd, archivesCreateCmd, archivesBindCmd)

	archivesCreateCmd.Flags().StringVar(&archiveName, "name", "", "Display name")
	archivesCreateCmd.Flags().Int32Var(&archiveSizeGB, "size-gb", 10, "Maximum size in GB")
	_ = archivesCreateCmd.MarkFlagRequired("name")

	archivesBindCmd.Flags().StringVar(&cameraRef, "camera", "", "Camera access point")
	archivesBindCmd.Flags().StringVar(&archiveAP, "archive", "", "Archive access point")
	_ = archivesBindCmd.MarkFlagRequired("camera")
	_ = archivesBindCmd.MarkFlagRequired("archive")
}
