package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRooms = []string{"Fizika fakültəsi", "Kimya fakültəsi"}

func TestRoomRouter_JoinRequiresIdentity(t *testing.T) {
	reg := NewRegistry()
	rr := NewRoomRouter(reg, testRooms)

	assert.ErrorIs(t, rr.Join("c1", testRooms[0]), ErrNotAuthenticated)
	_, ok := rr.RoomOf("c1")
	assert.False(t, ok)

	require.NoError(t, reg.Bind("c1", 1))
	assert.ErrorIs(t, rr.Join("c1", "Sehrbazlıq fakültəsi"), ErrUnknownRoom)
	assert.NoError(t, rr.Join("c1", testRooms[0]))
}

func TestRoomRouter_JoinLeavesPreviousRoom(t *testing.T) {
	reg := NewRegistry()
	rr := NewRoomRouter(reg, testRooms)
	require.NoError(t, reg.Bind("c1", 1))

	require.NoError(t, rr.Join("c1", testRooms[0]))
	require.NoError(t, rr.Join("c1", testRooms[1]))

	room, ok := rr.RoomOf("c1")
	assert.True(t, ok)
	assert.Equal(t, testRooms[1], room)
	assert.Empty(t, rr.RecipientsExcluding(testRooms[0], nil, nil))
	assert.Equal(t, []string{"c1"}, rr.RecipientsExcluding(testRooms[1], nil, nil))

	rr.Leave("c1")
	assert.Empty(t, rr.RecipientsExcluding(testRooms[1], nil, nil))
	rr.Leave("c1")
}

func TestRoomRouter_RecipientsExcluding(t *testing.T) {
	reg := NewRegistry()
	rr := NewRoomRouter(reg, testRooms)
	for conn, user := range map[string]uint{"a1": 1, "a2": 1, "b": 2, "c": 3, "d": 4} {
		require.NoError(t, reg.Bind(conn, user))
		require.NoError(t, rr.Join(conn, testRooms[0]))
	}

	got := rr.RecipientsExcluding(testRooms[0], []uint{2}, []uint{4})
	assert.ElementsMatch(t, []string{"a1", "a2", "c"}, got)

	// a connection that lost its identity is never a recipient
	reg.Unbind("c")
	got = rr.RecipientsExcluding(testRooms[0], nil, nil)
	assert.ElementsMatch(t, []string{"a1", "a2", "b", "d"}, got)
}
