package cmd

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"vms-e2e/internal/alerts"
	"vms-e2e/internal/auth"
	"vms-e2e/internal/config"
	"vms-e2e/internal/logger"
	"vms-e2e/internal/proxy"
)

// Variables to hold flag values
var (
	proxyListen   string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	cfg    *config.Config
	reg    *alerts.Registry
	server *proxy.Server
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	target, err := url.Parse(p.cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url: %w", err)
	}
	p.reg = alerts.NewRegistry()
	p.server = proxy.NewServer(proxy.Options{
		Target:      target,
		Token:       auth.BasicToken(p.cfg.Username, p.cfg.Password),
		InsecureTLS: p.cfg.InsecureTLS,
	}, p.reg)

	go p.run()
	return nil
}

func (p *program) run() {
	if err := p.server.ListenAndServe(p.cfg.ProxyListen); err != nil {
		logger.Error("proxy server failed", err)
		os.Exit(1)
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	logger.Info("stopping proxy")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			logger.Error("proxy forced to shut down", err)
		}
	}
	if p.reg != nil {
		if n := p.reg.Len(); n > 0 {
			logger.Warn("alerts raised through the UI were not completed", "count", n)
		}
		p.reg.Close()
	}
	return nil
}

// --- COMMAND ---

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the sniffing proxy between the web client and the server",
	Long: `Starts a reverse proxy in front of the configured server. Point the web
client under test at it: alerts raised and completed from the UI are tracked,
and Prometheus metrics are served on /metrics. Can be installed as a system
service.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if proxyListen != "" {
			cfg.ProxyListen = proxyListen
		}

		svcConfig := &service.Config{
			Name:        "vms-e2e-proxy",
			DisplayName: "VMS e2e sniffing proxy",
			Description: "Tracks alerts raised from the VMS web client during end-to-end runs",
			// Arguments passed to the binary when run as a service
			Arguments: []string{"proxy", "--listen", cfg.ProxyListen},
		}
		if cfgFile != "" {
			svcConfig.Arguments = append(svcConfig.Arguments, "--config", cfgFile)
		}

		prg := &program{cfg: cfg}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if err := service.Control(s, serviceAction); err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// Run the Service (Blocking)
		// This happens when the Service Manager starts the binary, OR when run interactively without flags
		svcLogger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			_ = svcLogger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(proxyCmd)
	proxyCmd.Flags().StringVar(&proxyListen, "listen", "", "Address to listen on (default proxy_listen from config)")
	proxyCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
