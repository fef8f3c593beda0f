package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"wallet_dashboard_back/pkg/notify"
)

const (
	userAddr  = "0x1111111111111111111111111111111111111111"
	adminAddr = "0x2222222222222222222222222222222222222222"
	otherAddr = "0x3333333333333333333333333333333333333333"
	txHash    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

type recordingNotifier struct {
	sent chan notify.Message
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.sent <- msg
	return nil
}

type testEnv struct {
	svc      *Service
	store    *memStore
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	n := &recordingNotifier{sent: make(chan notify.Message, 16)}
	svc := NewService(store.repository(), Deps{Notifier: n}, Config{})
	return &testEnv{svc: svc, store: store, notifier: n}
}

// setClock pins the clock of every time-aware service and of the store.
func (e *testEnv) setClock(now time.Time) {
	clock := func() time.Time { return now }
	e.store.now = clock
	e.svc.Authorization.(*AuthorizationService).now = clock
	e.svc.Transfer.(*TransferService).now = clock
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), err.Error())
}
