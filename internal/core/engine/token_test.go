package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCancelTokenStartsUncancelled(t *testing.T) {
	token := NewCancelToken()
	require.False(t, token.Cancelled())

	select {
	case <-token.Done():
		t.Fatal("done channel should stay open before Cancel")
	default:
	}
}

func TestCancelTokenCancelIsSticky(t *testing.T) {
	token := NewCancelToken()
	token.Cancel()
	token.Cancel()
	require.True(t, token.Cancelled())

	select {
	case <-token.Done():
	default:
		t.Fatal("done channel should be closed after Cancel")
	}
}

func TestCancelTokenNilIsSafe(t *testing.T) {
	var token *CancelToken
	require.False(t, token.Cancelled())
	require.Nil(t, token.Done())
	token.Cancel()
	token.OnCancel(func() { t.Fatal("listener must not fire on nil token") })
}

func TestCancelTokenListeners(t *testing.T) {
	token := NewCancelToken()

	var mu sync.Mutex
	fired := 0
	token.OnCancel(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	token.Cancel()
	token.Cancel()

	mu.Lock()
	require.Equal(t, 1, fired)
	mu.Unlock()

	// Registering after cancellation fires immediately.
	late := false
	token.OnCancel(func() { late = true })
	require.True(t, late)
}

func TestCancelTokenSharedByReference(t *testing.T) {
	token := NewCancelToken()
	alias := token

	alias.Cancel()
	require.True(t, token.Cancelled())
}

func TestCancelTokenBindContext(t *testing.T) {
	token := NewCancelToken()
	ctx, cancel := context.WithCancel(context.Background())
	stop := token.BindContext(ctx)
	defer stop()

	cancel()
	<-token.Done()
	require.True(t, token.Cancelled())
}

func TestCancelTokenBindContextStop(t *testing.T) {
	token := NewCancelToken()
	ctx, cancel := context.WithCancel(context.Background())
	stop := token.BindContext(ctx)
	stop()
	cancel()

	require.False(t, token.Cancelled())
}
