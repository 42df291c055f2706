package queue

import "fmt"

// StatusKind é o estado persistido de um evento na fila
type StatusKind string

const (
	KindPending StatusKind = "PENDING"
	KindSyncing StatusKind = "SYNCING"
	KindSynced  StatusKind = "SYNCED"
	KindFailed  StatusKind = "FAILED"
)

// Status é o estado de um evento. Reason só é preenchido em Failed.
type Status struct {
	Kind   StatusKind `json:"kind"`
	Reason string     `json:"reason,omitempty"`
}

func Pending() Status { return Status{Kind: KindPending} }
func Syncing() Status { return Status{Kind: KindSyncing} }
func Synced() Status  { return Status{Kind: KindSynced} }

// Failed marca o evento como rejeitado em definitivo, aguardando o operador
func Failed(reason string) Status {
	return Status{Kind: KindFailed, Reason: reason}
}

func (s Status) String() string {
	if s.Kind == KindFailed && s.Reason != "" {
		return fmt.Sprintf("%s(%s)", s.Kind, s.Reason)
	}
	return string(s.Kind)
}

func parseStatus(kind, lastError string) Status {
	switch StatusKind(kind) {
	case KindFailed:
		return Failed(lastError)
	case KindSyncing:
		return Syncing()
	case KindSynced:
		return Synced()
	default:
		return Pending()
	}
}
