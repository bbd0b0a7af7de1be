package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskboard/internal/adapter/relay"
	"taskboard/internal/config"
)

func relayCmd() *cobra.Command {
	var listenAddr, controlAddr string

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the real-time broadcast relay",
		Long: `Run the websocket relay.

Browsers connect on the listen address; the API posts events to
/broadcast on the control address, which only accepts loopback peers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if listenAddr == "" {
				listenAddr = cfg.RelayListenAddr
			}
			if controlAddr == "" {
				controlAddr = cfg.RelayControlAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			zap.L().Info("starting relay",
				zap.String("listen_addr", listenAddr),
				zap.String("control_addr", controlAddr),
				zap.Int("client_buffer", cfg.RelayClientBuffer),
			)
			server := relay.NewServer(relay.Config{ListenAddr: listenAddr, ControlAddr: controlAddr}, relay.NewHub(cfg.RelayClientBuffer))
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "websocket listen address (default RELAY_LISTEN_ADDR)")
	cmd.Flags().StringVar(&controlAddr, "control", "", "control listen address (default RELAY_CONTROL_ADDR)")

	return cmd
}
