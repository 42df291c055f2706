package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDevice(t *testing.T, apiURL string) {
	t.Helper()
	t.Setenv("PDV_QUEUE_PATH", filepath.Join(t.TempDir(), "queue.db"))
	t.Setenv("PDV_DEVICE_ID", "pos-test")
	t.Setenv("PDV_API_URL", apiURL)
	t.Setenv("PDV_TOKEN", "tok")
	t.Setenv("PDV_RETRIES", "0")
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	setupDevice(t, "http://127.0.0.1:1")

	_, err := execute(t, "pending", "--shop", "loja-1", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formato")
}

func TestEnqueue_Validation(t *testing.T) {
	setupDevice(t, "http://127.0.0.1:1")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"sem loja", []string{"enqueue", "--type", "sale", "--data", "{}"}, "--shop"},
		{"tipo desconhecido", []string{"enqueue", "--shop", "loja-1", "--type", "refund", "--data", "{}"}, "refund"},
		{"json inválido", []string{"enqueue", "--shop", "loja-1", "--type", "sale", "--data", "{"}, "JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEnqueue_ThenPending(t *testing.T) {
	setupDevice(t, "http://127.0.0.1:1")

	out, err := execute(t, "enqueue", "--shop", "loja-1", "--type", "expense", "--format", "json",
		"--data", `{"category":"frete","amount":"35.00"}`)
	require.NoError(t, err)

	var enq map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &enq))
	assert.NotEmpty(t, enq["local_id"])
	assert.Equal(t, "PENDING", enq["status"])

	out, err = execute(t, "pending", "--shop", "loja-1", "--format", "json")
	require.NoError(t, err)

	var report pendingReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Stats, 1)
	assert.Equal(t, syncevent.TypeExpense, report.Stats[0].Type)
	assert.Equal(t, 1, report.Stats[0].Pending)

	out, err = execute(t, "pending", "--shop", "loja-2")
	require.NoError(t, err)
	assert.Contains(t, out, "fila vazia")
}

func TestSync_DrainsAgainstServer(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req syncevent.BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		posts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(syncevent.BatchResult{Synced: len(req.Events), Errors: []syncevent.ItemError{}})
	}))
	defer srv.Close()
	setupDevice(t, srv.URL)

	for i := 0; i < 2; i++ {
		_, err := execute(t, "enqueue", "--shop", "loja-1", "--type", "sale", "--data", `{"lines":[]}`)
		require.NoError(t, err)
	}

	out, err := execute(t, "sync", "--shop", "loja-1")
	require.NoError(t, err)
	assert.Contains(t, out, "loja-1: enviados=2")
	assert.Equal(t, int32(1), posts.Load())

	out, err = execute(t, "pending", "--shop", "loja-1")
	require.NoError(t, err)
	assert.Contains(t, out, "fila vazia")
}

func TestPurge_RequiresIDsOrFailed(t *testing.T) {
	setupDevice(t, "http://127.0.0.1:1")

	_, err := execute(t, "purge", "--shop", "loja-1")
	require.Error(t, err)

	out, err := execute(t, "purge", "--shop", "loja-1", "--failed")
	require.NoError(t, err)
	assert.Contains(t, out, "0 eventos removidos")
}
