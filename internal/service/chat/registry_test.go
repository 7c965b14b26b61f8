package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BindMultipleConnections(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Bind("c1", 7))
	require.NoError(t, r.Bind("c2", 7))
	require.NoError(t, r.Bind("c3", 8))

	assert.ElementsMatch(t, []string{"c1", "c2"}, r.ConnectionsFor(7))
	assert.Equal(t, []string{"c3"}, r.ConnectionsFor(8))
	assert.Equal(t, 2, r.OnlineCount())

	id, ok := r.IdentityOf("c2")
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)
}

func TestRegistry_RebindRules(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Bind("c1", 7))
	assert.NoError(t, r.Bind("c1", 7))
	assert.ErrorIs(t, r.Bind("c1", 8), ErrAlreadyBound)
	assert.Empty(t, r.ConnectionsFor(8))
}

func TestRegistry_UnbindCleansUp(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Bind("c1", 7))
	require.NoError(t, r.Bind("c2", 7))

	r.Unbind("c1")
	assert.Equal(t, []string{"c2"}, r.ConnectionsFor(7))

	r.Unbind("c2")
	assert.Empty(t, r.ConnectionsFor(7))
	_, ok := r.byIdentity[7]
	assert.False(t, ok, "empty identity entry must be removed")

	// never authenticated
	r.Unbind("ghost")
	assert.Equal(t, 0, r.OnlineCount())
}

func TestRegistry_ConcurrentBindUnbind(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := fmt.Sprintf("c%d", i)
			_ = r.Bind(conn, uint(i%5+1))
			r.ConnectionsFor(uint(i%5 + 1))
			if i%2 == 0 {
				r.Unbind(conn)
			}
		}(i)
	}
	wg.Wait()

	r.mu.RLock()
	defer r.mu.RUnlock()
	for conn, user := range r.byConn {
		_, ok := r.byIdentity[user][conn]
		assert.True(t, ok, "forward entry %s missing from inverse map", conn)
	}
	total := 0
	for _, set := range r.byIdentity {
		assert.NotEmpty(t, set)
		total += len(set)
	}
	assert.Equal(t, len(r.byConn), total)
	assert.Equal(t, 25, total)
}
