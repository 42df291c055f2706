package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hugohenrick/pdv-sync/internal/offline/queue"
	"github.com/spf13/cobra"
)

// PendingOptions reúne as flags do comando pending
type PendingOptions struct {
	*RootOptions
	Failed bool
}

// pendingReport é a saída JSON do comando pending
type pendingReport struct {
	ShopID string            `json:"shop_id"`
	Stats  []queue.TypeStats `json:"stats"`
	Failed []queue.Event     `json:"failed,omitempty"`
}

// NewPendingCommand cria o comando pending
func NewPendingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PendingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Mostra a fila local por tipo de evento",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPending(opts, cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "lista também os eventos rejeitados com o erro de cada um")
	return cmd
}

func runPending(opts *PendingOptions, cmd *cobra.Command) error {
	if err := opts.requireShop(); err != nil {
		return err
	}
	db, err := queue.Open(opts.cfg.QueuePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	q := queue.NewRegistry(db, opts.cfg.DeviceID).For(opts.ShopID)

	report := pendingReport{ShopID: opts.ShopID}
	if report.Stats, err = q.Stats(ctx); err != nil {
		return err
	}
	if opts.Failed {
		if report.Failed, err = q.ListFailed(ctx, ""); err != nil {
			return err
		}
	}

	return opts.output(cmd.OutOrStdout(), report, func(w io.Writer) {
		if len(report.Stats) == 0 {
			fmt.Fprintln(w, "fila vazia")
			return
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIPO\tPENDENTES\tENVIANDO\tREJEITADOS\tÚLTIMO ERRO")
		for _, s := range report.Stats {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", s.Type, s.Pending, s.Syncing, s.Failed, s.LastError)
		}
		tw.Flush()

		for _, e := range report.Failed {
			fmt.Fprintf(w, "  %s %s tentativas=%d: %s\n", e.LocalID, e.Type, e.Attempts, e.LastError)
		}
	})
}
