// Package cli implementa o agente do PDV: fila local, inspeção e sincronização.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hugohenrick/pdv-sync/internal/config"
	"github.com/hugohenrick/pdv-sync/internal/offline/backoff"
	"github.com/hugohenrick/pdv-sync/internal/offline/client"
	"github.com/hugohenrick/pdv-sync/internal/offline/orchestrator"
	"github.com/hugohenrick/pdv-sync/internal/offline/queue"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/spf13/cobra"
)

// RootOptions reúne as flags globais
type RootOptions struct {
	EnvFile string
	ShopID  string
	Format  string // text ou json

	cfg    *config.DeviceConfig
	logger logger.Logger
}

// ValidFormats são os formatos de saída aceitos
var ValidFormats = []string{"text", "json"}

// NewRootCommand cria o comando raiz pdv
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pdv",
		Short: "Agente offline do PDV",
		Long:  "Enfileira eventos do caixa localmente e os sincroniza com o servidor de registro.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("formato %q inválido: use um de %v", opts.Format, ValidFormats)
			}

			cfg, err := config.LoadDevice(opts.EnvFile)
			if err != nil {
				return err
			}
			log, err := logger.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", "", "arquivo .env")
	cmd.PersistentFlags().StringVar(&opts.ShopID, "shop", "", "loja em que o caixa opera")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de saída (text|json)")

	cmd.AddCommand(NewEnqueueCommand(opts))
	cmd.AddCommand(NewPendingCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewRequeueCommand(opts))
	cmd.AddCommand(NewPurgeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) requireShop() error {
	if o.ShopID == "" {
		return fmt.Errorf("--shop deve ser informado")
	}
	return nil
}

// agent reúne as dependências abertas por um comando
type agent struct {
	db       *queue.DB
	registry *queue.Registry
	client   *client.APIClient
	orch     *orchestrator.Orchestrator
}

// openAgent abre a fila e monta o orquestrador a partir da configuração
func (o *RootOptions) openAgent() (*agent, error) {
	db, err := queue.Open(o.cfg.QueuePath)
	if err != nil {
		return nil, err
	}

	registry := queue.NewRegistry(db, o.cfg.DeviceID)
	apiClient := client.NewClient(*o.cfg)

	policy := backoff.DefaultOptions()
	policy.Retries = o.cfg.Retries
	policy.Base = o.cfg.BackoffBase
	policy.Max = o.cfg.BackoffMax

	orch := orchestrator.New(registry, apiClient, orchestrator.Options{
		SyncInterval:   o.cfg.SyncInterval,
		ProbeInterval:  o.cfg.ProbeInterval,
		RequestTimeout: o.cfg.RequestTimeout,
		MaxBatch:       o.cfg.MaxBatch,
		Backoff:        policy,
	}, o.logger)

	return &agent{db: db, registry: registry, client: apiClient, orch: orch}, nil
}

func (a *agent) Close() error {
	a.orch.Stop()
	return a.db.Close()
}

// output escreve v em JSON ou chama text
func (o *RootOptions) output(w io.Writer, v interface{}, text func(io.Writer)) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
