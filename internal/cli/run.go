package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRunCommand cria o comando run
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Mantém a sincronização em segundo plano até receber um sinal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := rootOpts.openAgent()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orch.Start(); err != nil {
				return err
			}

			rootOpts.logger.Info("agente em execução", "device_id", rootOpts.cfg.DeviceID, "queue", rootOpts.cfg.QueuePath)
			<-ctx.Done()
			return nil
		},
	}
}
