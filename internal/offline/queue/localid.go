package queue

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// NewLocalID gera o identificador do evento no dispositivo:
// <unix-ms base36>-<hash do fingerprint>-<sufixo aleatório>.
// O id vira a chave de idempotência no servidor, então precisa ser único entre dispositivos.
func NewLocalID(fingerprint string) string {
	return newLocalIDAt(time.Now(), fingerprint)
}

func newLocalIDAt(t time.Time, fingerprint string) string {
	sum := blake2b.Sum256([]byte(fingerprint))
	random := strings.ReplaceAll(uuid.NewString(), "-", "")

	var b strings.Builder
	b.WriteString(strconv.FormatInt(t.UnixMilli(), 36))
	b.WriteByte('-')
	b.WriteString(hex.EncodeToString(sum[:4]))
	b.WriteByte('-')
	b.WriteString(random[:12])
	return b.String()
}
