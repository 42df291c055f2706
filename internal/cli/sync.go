package cli

import (
	"fmt"
	"io"

	"github.com/hugohenrick/pdv-sync/internal/offline/orchestrator"
	"github.com/spf13/cobra"
)

// SyncOptions reúne as flags do comando sync
type SyncOptions struct {
	*RootOptions
	All bool
}

// NewSyncCommand cria o comando sync
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Drena a fila uma vez",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.All, "all", false, "drena todas as lojas com eventos na fila")
	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	if !opts.All {
		if err := opts.requireShop(); err != nil {
			return err
		}
	}

	a, err := opts.openAgent()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	shops := []string{opts.ShopID}
	if opts.All {
		if shops, err = a.registry.Shops(ctx); err != nil {
			return err
		}
	}

	reports := make([]*orchestrator.Report, 0, len(shops))
	var firstErr error
	for _, shopID := range shops {
		report, err := a.orch.Drain(ctx, shopID)
		if err != nil {
			opts.logger.Warn("drenagem interrompida", "shop_id", shopID, "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
		if report != nil {
			reports = append(reports, report)
		}
	}

	if err := opts.output(cmd.OutOrStdout(), reports, func(w io.Writer) {
		for _, r := range reports {
			fmt.Fprintf(w, "%s: enviados=%d ignorados=%d reagendados=%d rejeitados=%d\n",
				r.ShopID, r.Synced, r.Skipped, r.Retrying, r.Failed)
		}
	}); err != nil {
		return err
	}
	return firstErr
}
