package cli

import (
	"fmt"
	"io"

	"github.com/hugohenrick/pdv-sync/internal/offline/queue"
	"github.com/spf13/cobra"
)

// PurgeOptions reúne as flags do comando purge
type PurgeOptions struct {
	*RootOptions
	Failed bool
}

// NewRequeueCommand cria o comando requeue
func NewRequeueCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "requeue [local-id...]",
		Short: "Devolve eventos rejeitados para a fila",
		Long:  "Sem ids, devolve todos os eventos rejeitados da loja para PENDING com envio imediato.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, func(q *queue.Queue) (int64, error) {
				return q.Requeue(cmd.Context(), args...)
			}, "reenfileirados")
		},
	}
}

// NewPurgeCommand cria o comando purge
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PurgeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "purge [local-id...]",
		Short: "Remove eventos da fila",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.Failed {
				return fmt.Errorf("informe os ids ou use --failed")
			}
			return withQueue(rootOpts, cmd, func(q *queue.Queue) (int64, error) {
				if opts.Failed {
					return q.PurgeFailed(cmd.Context())
				}
				return q.Purge(cmd.Context(), args...)
			}, "removidos")
		},
	}
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "remove todos os eventos rejeitados")
	return cmd
}

func withQueue(opts *RootOptions, cmd *cobra.Command, fn func(q *queue.Queue) (int64, error), verb string) error {
	if err := opts.requireShop(); err != nil {
		return err
	}
	db, err := queue.Open(opts.cfg.QueuePath)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := fn(queue.NewRegistry(db, opts.cfg.DeviceID).For(opts.ShopID))
	if err != nil {
		return err
	}
	return opts.output(cmd.OutOrStdout(), map[string]int64{verb: n}, func(w io.Writer) {
		fmt.Fprintf(w, "%d eventos %s\n", n, verb)
	})
}
