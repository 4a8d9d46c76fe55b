package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vms-e2e/internal/client"
	"vms-e2e/internal/config"
)

// Variables to hold flag values
var (
	host     string
	hostName string
	user     string
	pass     string
	insecure bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check access to the VMS server and remember it",
	Long: `Checks the credentials against the server, verifies that the given node
exists, and saves the server for future commands.

Example:
  vms-e2e login --host "https://10.0.0.5:8000" --host-name Server1 --username root --password root`,
	Run: func(cmd *cobra.Command, args []string) {
		// Clean up input host (remove trailing slash if present)
		host = strings.TrimRight(host, "/")

		api := client.New(client.ClientConfig{
			BaseURL:     host,
			HostName:    hostName,
			Username:    user,
			Password:    pass,
			InsecureTLS: insecure,
			Timeout:     30 * time.Second,
		})

		fmt.Printf("Checking %s as user '%s'...\n", host, user)

		ctx, cancel := commandContext()
		defer cancel()

		hosts, err := api.GetHosts(ctx)
		if err != nil {
			log.Fatalf("Fatal: Login failed: %v", err)
		}
		if !hosts.Contains(hostName) {
			log.Fatalf("Fatal: node %q not found, server reports %v", hostName, hosts)
		}

		fmt.Println("Login successful. Saving configuration...")

		if err := config.SaveServer(host, hostName, user, pass); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Printf("Server saved. You can now run commands like 'vms-e2e cameras list'.\n")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&host, "host", "", "Server URL (e.g. https://192.168.1.50:8000)")
	loginCmd.Flags().StringVar(&hostName, "host-name", "", "Node that owns test cameras and archives (e.g. Server1)")
	loginCmd.Flags().StringVarP(&user, "username", "u", "root", "Username")
	loginCmd.Flags().StringVarP(&pass, "password", "p", "", "Password")
	loginCmd.Flags().BoolVar(&insecure, "insecure", true, "Skip TLS certificate verification")

	_ = loginCmd.MarkFlagRequired("host")
	_ = loginCmd.MarkFlagRequired("host-name")
}
