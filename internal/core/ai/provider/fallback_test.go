package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-search/internal/core/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInterpreter struct {
	name   string
	interp *query.Interpretation
	err    error
	delay  time.Duration
	calls  int
}

func (s *stubInterpreter) Interpret(ctx context.Context, text, langHint string) (*query.Interpretation, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.interp, s.err
}

func (s *stubInterpreter) Name() string { return s.name }

func TestFallback_FirstProviderWins(t *testing.T) {
	primary := &stubInterpreter{name: "primary", interp: &query.Interpretation{TranslatedText: "ok"}}
	backup := &stubInterpreter{name: "backup", interp: &query.Interpretation{TranslatedText: "backup"}}

	f := NewFallbackInterpreter(time.Second, primary, backup)

	interp, err := f.Interpret(context.Background(), "query", "en")
	require.NoError(t, err)

	assert.Equal(t, "ok", interp.TranslatedText)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, backup.calls)
}

func TestFallback_SecondProviderOnFailure(t *testing.T) {
	primary := &stubInterpreter{name: "primary", err: errors.New("rate limited")}
	backup := &stubInterpreter{name: "backup", interp: &query.Interpretation{TranslatedText: "backup"}}

	f := NewFallbackInterpreter(time.Second, primary, backup)

	interp, err := f.Interpret(context.Background(), "query", "en")
	require.NoError(t, err)

	assert.Equal(t, "backup", interp.TranslatedText)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, backup.calls)
}

func TestFallback_SlowProviderSkipped(t *testing.T) {
	slow := &stubInterpreter{name: "slow", interp: &query.Interpretation{}, delay: 500 * time.Millisecond}
	fast := &stubInterpreter{name: "fast", interp: &query.Interpretation{TranslatedText: "fast"}}

	f := NewFallbackInterpreter(20*time.Millisecond, slow, fast)

	interp, err := f.Interpret(context.Background(), "query", "en")
	require.NoError(t, err)

	assert.Equal(t, "fast", interp.TranslatedText)
}

func TestFallback_AllProvidersFail(t *testing.T) {
	a := &stubInterpreter{name: "a", err: errors.New("down")}
	b := &stubInterpreter{name: "b", err: errors.New("also down")}

	f := NewFallbackInterpreter(time.Second, a, b)

	_, err := f.Interpret(context.Background(), "query", "en")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "also down")
}

func TestFallback_NoProviders(t *testing.T) {
	f := NewFallbackInterpreter(time.Second)

	_, err := f.Interpret(context.Background(), "query", "en")
	assert.Error(t, err)
	assert.Equal(t, "none", f.Name())
}

func TestFallback_CancelledContextStopsChain(t *testing.T) {
	a := &stubInterpreter{name: "a", err: errors.New("down")}
	b := &stubInterpreter{name: "b", interp: &query.Interpretation{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFallbackInterpreter(time.Second, a, b)

	_, err := f.Interpret(ctx, "query", "en")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, a.calls)
}
