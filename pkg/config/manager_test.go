package config

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("Should expose the loaded configuration", func(t *testing.T) {
		m := NewManager(nil)
		cfg, err := m.Load(t.Context())
		require.NoError(t, err)
		assert.Same(t, cfg, m.Get())
		require.NoError(t, m.Close(t.Context()))
	})

	t.Run("Should notify listeners on reload with changes", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.json", `{"api": {"page_size": 10}}`)
		m := NewManager(nil)
		var calls atomic.Int32
		m.OnChange(func(*Config) { calls.Add(1) })
		_, err := m.Load(t.Context(), NewFileProvider(path, true))
		require.NoError(t, err)

		require.NoError(t, m.Reload(t.Context()))
		assert.Equal(t, int32(1), calls.Load())

		require.NoError(t, os.WriteFile(path, []byte(`{"api": {"page_size": 20}}`), 0o600))
		require.NoError(t, m.Reload(t.Context()))
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, 20, m.Get().API.PageSize)
	})

	t.Run("Should keep the last good config when a reload fails", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.json", `{"api": {"page_size": 10}}`)
		m := NewManager(nil)
		_, err := m.Load(t.Context(), NewFileProvider(path, true))
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte(`{"api": {"page_size": -1}}`), 0o600))
		assert.Error(t, m.Reload(t.Context()))
		assert.Equal(t, 10, m.Get().API.PageSize)
	})

	t.Run("Should reload when a watched file changes", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.json", `{"api": {"page_size": 10}}`)
		m := NewManager(nil)
		m.SetDebounce(10 * time.Millisecond)
		changed := make(chan *Config, 4)
		m.OnChange(func(c *Config) { changed <- c })
		_, err := m.Load(t.Context(), NewFileProvider(path, true))
		require.NoError(t, err)
		<-changed
		m.Watch(t.Context())
		t.Cleanup(func() { _ = m.Close(t.Context()) })
		time.Sleep(100 * time.Millisecond)

		require.NoError(t, os.WriteFile(path, []byte(`{"api": {"page_size": 30}}`), 0o600))
		select {
		case c := <-changed:
			assert.Equal(t, 30, c.API.PageSize)
		case <-time.After(3 * time.Second):
			t.Fatal("config change was not observed")
		}
	})
}

func TestContextWithManager(t *testing.T) {
	t.Run("Should return nil without a manager", func(t *testing.T) {
		assert.Nil(t, FromContext(t.Context()))
		assert.Nil(t, ManagerFromContext(t.Context()))
	})

	t.Run("Should expose the loaded configuration", func(t *testing.T) {
		ctx := t.Context()
		m := NewManager(NewService())
		ctx = ContextWithManager(ctx, m)
		assert.Nil(t, FromContext(ctx))
		_, err := m.Load(ctx)
		require.NoError(t, err)
		cfg := FromContext(ctx)
		require.NotNil(t, cfg)
		assert.Equal(t, 10, cfg.API.PageSize)
	})
}
