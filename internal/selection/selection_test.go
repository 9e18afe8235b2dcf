package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routemap/internal/dataset"
)

var (
	k0 = dataset.KeyFor(0)
	k1 = dataset.KeyFor(1)
	k2 = dataset.KeyFor(2)
)

func TestState(t *testing.T) {
	s := NewState(k1, k0, k1)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(k0))
	assert.False(t, s.Contains(k2))
	assert.Equal(t, []dataset.Key{k0, k1}, s.Keys())
	assert.True(t, s.ContainsAll([]dataset.Key{k0, k1}))
	assert.False(t, s.ContainsAll([]dataset.Key{k0, k2}))
	assert.False(t, s.ContainsAll(nil))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(k0))

	var nilState *State
	assert.Equal(t, 0, nilState.Len())
	assert.False(t, nilState.Contains(k0))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		selected      []dataset.Key
		key           dataset.Key
		highlightMode bool
		highlighted   bool
		want          Display
	}{
		{"nothing selected", nil, k0, false, false, Normal},
		{"selected", []dataset.Key{k0}, k0, false, false, Emphasized},
		{"not selected", []dataset.Key{k0}, k1, false, false, Dimmed},
		{"highlighted", nil, k0, true, true, Emphasized},
		{"not highlighted", nil, k0, true, false, Dimmed},
		{"highlight mode ignores selection", []dataset.Key{k0}, k0, true, false, Dimmed},
		{"highlight wins for unselected", []dataset.Key{k1}, k0, true, true, Emphasized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(NewState(tt.selected...), tt.key, tt.highlightMode, tt.highlighted)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayOpacity(t *testing.T) {
	assert.Equal(t, 1.0, Normal.Opacity())
	assert.Equal(t, 1.0, Emphasized.Opacity())
	assert.Equal(t, 0.3, Dimmed.Opacity())
	assert.True(t, Emphasized.Shown())
	assert.True(t, Normal.Shown())
	assert.False(t, Dimmed.Shown())
	assert.Equal(t, "dimmed", Dimmed.String())
}

func TestClickMarker(t *testing.T) {
	group := []dataset.Key{k0, k1}

	t.Run("partial group selects", func(t *testing.T) {
		r := ClickMarker(NewState(k0), group, true)
		assert.Equal(t, OpSelect, r.Op)
		assert.Equal(t, group, r.Keys)
		assert.True(t, r.Additive)
	})

	t.Run("fully selected group clears", func(t *testing.T) {
		r := ClickMarker(NewState(k0, k1, k2), group, false)
		assert.Equal(t, OpClear, r.Op)
	})

	t.Run("empty selection selects", func(t *testing.T) {
		r := ClickMarker(NewState(), group, false)
		assert.Equal(t, OpSelect, r.Op)
	})
}

func TestLocalManager(t *testing.T) {
	ctx := context.Background()

	t.Run("replace", func(t *testing.T) {
		m := NewLocalManager(nil)
		got, err := m.Select(ctx, []dataset.Key{k0}, false)
		require.NoError(t, err)
		assert.Equal(t, []dataset.Key{k0}, got)

		got, err = m.Select(ctx, []dataset.Key{k1}, false)
		require.NoError(t, err)
		assert.Equal(t, []dataset.Key{k1}, got)
	})

	t.Run("reselecting the same set clears it", func(t *testing.T) {
		m := NewLocalManager(nil)
		_, err := m.Select(ctx, []dataset.Key{k0}, false)
		require.NoError(t, err)
		got, err := m.Select(ctx, []dataset.Key{k0}, false)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("additive toggles", func(t *testing.T) {
		m := NewLocalManager(nil)
		_, _ = m.Select(ctx, []dataset.Key{k0}, false)
		got, err := m.Select(ctx, []dataset.Key{k1}, true)
		require.NoError(t, err)
		assert.Equal(t, []dataset.Key{k0, k1}, got)

		got, err = m.Select(ctx, []dataset.Key{k0}, true)
		require.NoError(t, err)
		assert.Equal(t, []dataset.Key{k1}, got)
	})

	t.Run("unknown key", func(t *testing.T) {
		m := NewLocalManager(func(k dataset.Key) bool { return k == k0 })
		_, err := m.Select(ctx, []dataset.Key{k2}, false)
		assert.ErrorIs(t, err, ErrUnknownKey)
		assert.Empty(t, m.Selected())
	})

	t.Run("clear", func(t *testing.T) {
		m := NewLocalManager(nil)
		_, _ = m.Select(ctx, []dataset.Key{k0, k1}, false)
		require.NoError(t, m.Clear(ctx))
		assert.Empty(t, m.Selected())
	})

	t.Run("cancelled context", func(t *testing.T) {
		m := NewLocalManager(nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.Select(cctx, []dataset.Key{k0}, false)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type authoritative struct {
	result []dataset.Key
	err    error
}

func (a authoritative) Select(context.Context, []dataset.Key, bool) ([]dataset.Key, error) {
	return a.result, a.err
}

func (a authoritative) Clear(context.Context) error { return a.err }

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("state mirrors the manager, not the request", func(t *testing.T) {
		s := NewState()
		err := Apply(ctx, authoritative{result: []dataset.Key{k2}}, s, ClickRoute(k0, false))
		require.NoError(t, err)
		assert.Equal(t, []dataset.Key{k2}, s.Keys())
	})

	t.Run("failed commit leaves state unchanged", func(t *testing.T) {
		s := NewState(k1)
		err := Apply(ctx, authoritative{err: errors.New("host down")}, s, ClickRoute(k0, false))
		assert.Error(t, err)
		assert.Equal(t, []dataset.Key{k1}, s.Keys())
	})

	t.Run("clear request", func(t *testing.T) {
		s := NewState(k0, k1)
		require.NoError(t, Apply(ctx, NewLocalManager(nil), s, Request{Op: OpClear}))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("single route selection dims the rest", func(t *testing.T) {
		s := NewState()
		require.NoError(t, Apply(ctx, NewLocalManager(nil), s, ClickRoute(k0, false)))
		assert.Equal(t, Emphasized, Evaluate(s, k0, false, false))
		assert.Equal(t, Dimmed, Evaluate(s, k1, false, false))
	})
}
