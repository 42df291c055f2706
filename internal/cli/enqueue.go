package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/hugohenrick/pdv-sync/internal/offline/queue"
	"github.com/spf13/cobra"
)

// EnqueueOptions reúne as flags do comando enqueue
type EnqueueOptions struct {
	*RootOptions
	Type   string
	File   string
	Data   string
	Direct bool
}

// NewEnqueueCommand cria o comando enqueue
func NewEnqueueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EnqueueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Grava um evento na fila local",
		Long: `Grava um evento na fila local da loja. O payload é lido de --data,
de --file ou da entrada padrão. Com --direct, se o servidor responder,
o evento é enviado imediatamente.

Exemplos:
  pdv enqueue --shop loja-1 --type sale --file venda.json
  echo '{"category":"frete","amount":"35.00"}' | pdv enqueue --shop loja-1 --type expense`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnqueue(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "tipo do evento (sale, purchase, stock-adjustment, expense, customer, udhaar-payment)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&opts.File, "file", "", "arquivo com o payload JSON")
	cmd.Flags().StringVar(&opts.Data, "data", "", "payload JSON")
	cmd.Flags().BoolVar(&opts.Direct, "direct", false, "tenta a escrita direta se o servidor estiver acessível")

	return cmd
}

func readPayload(opts *EnqueueOptions, stdin io.Reader) (json.RawMessage, error) {
	var raw []byte
	var err error
	switch {
	case opts.Data != "":
		raw = []byte(opts.Data)
	case opts.File != "":
		raw, err = os.ReadFile(opts.File)
	default:
		raw, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler payload: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("payload não é um JSON válido")
	}
	return json.RawMessage(raw), nil
}

func runEnqueue(opts *EnqueueOptions, cmd *cobra.Command) error {
	if err := opts.requireShop(); err != nil {
		return err
	}
	t, ok := syncevent.ParseType(opts.Type)
	if !ok {
		return fmt.Errorf("tipo de evento %q desconhecido", opts.Type)
	}

	payload, err := readPayload(opts, cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := opts.openAgent()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if opts.Direct && a.client.Health(ctx) == nil {
		a.orch.SetOnline(true)
	}

	localID, err := a.orch.Enqueue(ctx, opts.ShopID, t, payload)
	if err != nil {
		return err
	}

	status := "SYNCED"
	ev, err := a.registry.For(opts.ShopID).Get(ctx, localID)
	switch {
	case err == nil:
		status = ev.Status.String()
	case !errors.Is(err, queue.ErrNotFound):
		return err
	}

	return opts.output(cmd.OutOrStdout(), map[string]string{"local_id": localID, "status": status}, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s\n", localID, status)
	})
}
