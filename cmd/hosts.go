package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var unitUID string

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List all nodes of the domain",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		api := newClient(cfg)
		ctx, cancel := commandContext()
		defer cancel()

		hosts, err := api.GetHosts(ctx)
		if err != nil {
			fail("fetching hosts", err)
		}

		if jsonOutput {
			printJSON(hosts)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tCONFIGURED")
		fmt.Fprintln(w, "----\t----------")
		for _, h := range hosts {
			mark := ""
			if h == cfg.HostName {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\n", h, mark)
		}
		w.Flush()
	},
}

var unitsCmd = &cobra.Command{
	Use:     "units",
	Short:   "Show a configuration unit and its children",
	Example: `  vms-e2e units --uid hosts/Server1/DeviceIpint.1`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext()
		defer cancel()

		units, err := api.ListConfiguratorUnits(ctx, unitUID)
		if err != nil {
			fail("fetching units", err)
		}

		if jsonOutput {
			printJSON(units)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "UID\tTYPE\tNAME\tPROPERTIES\tCHILDREN")
		fmt.Fprintln(w, "---\t----\t----\t----------\t--------")
		for _, u := range units {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", u.UID, u.Type, u.DisplayName, len(u.Properties), len(u.Units))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(hostsCmd)
	rootCmd.AddCommand(unitsCmd)

	unitsCmd.Flags().StringVar(&unitUID, "uid", "", "Unit uid")
	_ = unitsCmd.MarkFlagRequired("uid")
}
