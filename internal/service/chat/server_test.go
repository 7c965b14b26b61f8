package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bsu_chat_server/internal/infrastructure/mq"
	"bsu_chat_server/internal/model"
	"bsu_chat_server/pkg/constants"
	"bsu_chat_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uint]*model.UserInfo
	err   error
}

func (f *fakeUsers) FindById(id uint) (*model.UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, errorx.New(errorx.CodeNotFound, "user not found")
	}
	cp := *u
	return &cp, nil
}

type fakeBlocks struct {
	mu    sync.Mutex
	pairs map[[2]uint]bool // blocker, blocked
	err   error
}

func (f *fakeBlocks) FindBlockedIds(blockerID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []uint
	for p := range f.pairs {
		if p[0] == blockerID {
			out = append(out, p[1])
		}
	}
	return out, nil
}

func (f *fakeBlocks) FindBlockerIds(blockedID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []uint
	for p := range f.pairs {
		if p[1] == blockedID {
			out = append(out, p[0])
		}
	}
	return out, nil
}

func (f *fakeBlocks) ExistsBetween(a, b uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.pairs[[2]uint{a, b}] || f.pairs[[2]uint{b, a}], nil
}

func (f *fakeBlocks) Create(blockerID, blockedID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.pairs[[2]uint{blockerID, blockedID}] = true
	return nil
}

type fakeReports struct {
	mu      sync.Mutex
	reports [][2]uint
	err     error
}

func (f *fakeReports) Create(reporterID, reportedID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, [2]uint{reporterID, reportedID})
	return nil
}

type capturePublisher struct {
	events chan mq.ModerationEvent
}

func (c *capturePublisher) Publish(_ context.Context, e mq.ModerationEvent) error {
	c.events <- e
	return nil
}

func (c *capturePublisher) Close() error { return nil }

type fixture struct {
	server    *Server
	users     *fakeUsers
	blocks    *fakeBlocks
	reports   *fakeReports
	settings  *fakeSettings
	publisher *capturePublisher
	now       time.Time
}

func user(id uint, name, faculty string) *model.UserInfo {
	return &model.UserInfo{ID: id, FullName: name, Faculty: faculty, Degree: "Bakalavr", Course: 2, AvatarID: 3, IsActive: true}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users: &fakeUsers{users: map[uint]*model.UserInfo{
			1: user(1, "Aygün", testRooms[0]),
			2: user(2, "Bəhruz", testRooms[0]),
			3: user(3, "Cavid", testRooms[0]),
		}},
		blocks:    &fakeBlocks{pairs: map[[2]uint]bool{}},
		reports:   &fakeReports{},
		settings:  newFakeSettings(),
		publisher: &capturePublisher{events: make(chan mq.ModerationEvent, 8)},
		now:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.server = NewServer(ServerConfig{
		Users:            f.users,
		Blocks:           f.blocks,
		Reports:          f.reports,
		Settings:         f.settings,
		Publisher:        f.publisher,
		Rooms:            testRooms,
		MaxMessageLength: 20,
		SendBufferSize:   16,
		Now:              func() time.Time { return f.now },
	})
	t.Cleanup(f.server.Close)
	return f
}

// connect attaches a client without a socket; frames land in its queue.
func (f *fixture) connect(t *testing.T, id string) *Client {
	t.Helper()
	c := newClient(id, nil, 16)
	require.True(t, f.server.Attach(c))
	return c
}

func (f *fixture) send(conn *Client, event string, data any) {
	raw, _ := json.Marshal(outEnvelope{Event: event, Data: data})
	f.server.HandleFrame(context.Background(), conn.ID, raw)
}

// login connects and authenticates, draining the reply.
func (f *fixture) login(t *testing.T, id string, userID uint) *Client {
	t.Helper()
	c := f.connect(t, id)
	f.send(c, constants.EventAuthenticate, userID)
	ev, data := recv(t, c)
	require.Equal(t, constants.EventAuthenticated, ev)
	var res authResult
	require.NoError(t, json.Unmarshal(data, &res))
	require.True(t, res.Success)
	return c
}

func (f *fixture) join(t *testing.T, c *Client, faculty string) []Message {
	t.Helper()
	f.send(c, constants.EventJoinFaculty, faculty)
	ev, data := recv(t, c)
	require.Equal(t, constants.EventLoadMessages, ev)
	var history []Message
	require.NoError(t, json.Unmarshal(data, &history))
	return history
}

func recv(t *testing.T, c *Client) (string, json.RawMessage) {
	t.Helper()
	select {
	case frame, ok := <-c.send:
		require.True(t, ok, "send queue closed")
		var env envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		return env.Event, env.Data
	case <-time.After(time.Second):
		t.Fatalf("no frame for %s", c.ID)
		return "", nil
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case frame := <-c.send:
		t.Fatalf("unexpected frame for %s: %s", c.ID, frame)
	default:
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	f.users.users[9] = user(9, "Deaktiv", testRooms[0])
	f.users.users[9].IsActive = false

	tests := []struct {
		name    string
		payload any
		success bool
		errMsg  string
	}{
		{"numeric id", 1, true, ""},
		{"string id", "2", true, ""},
		{"unknown user", 404, false, constants.MsgUserNotFound},
		{"inactive user", 9, false, constants.MsgUserNotFound},
		{"garbage", "abc", false, constants.MsgUserNotFound},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := f.connect(t, "auth-"+string(rune('a'+i)))
			f.send(c, constants.EventAuthenticate, tt.payload)
			ev, data := recv(t, c)
			assert.Equal(t, constants.EventAuthenticated, ev)
			var res authResult
			require.NoError(t, json.Unmarshal(data, &res))
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.errMsg, res.Error)
			_, bound := f.server.Registry().IdentityOf(c.ID)
			assert.Equal(t, tt.success, bound)
		})
	}
}

func TestAuthenticate_DirectoryFailure(t *testing.T) {
	f := newFixture(t)
	f.users.err = errors.New("connection refused")
	c := f.connect(t, "c1")
	f.send(c, constants.EventAuthenticate, 1)

	_, data := recv(t, c)
	var res authResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.False(t, res.Success)
	assert.Equal(t, constants.MsgSomethingWrong, res.Error)
}

func TestAuthenticate_CannotSwitchIdentity(t *testing.T) {
	f := newFixture(t)
	c := f.login(t, "c1", 1)
	f.send(c, constants.EventAuthenticate, 2)

	_, data := recv(t, c)
	var res authResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.False(t, res.Success)
	id, _ := f.server.Registry().IdentityOf("c1")
	assert.Equal(t, uint(1), id)
}

func TestUnauthenticatedActionsAreSilent(t *testing.T) {
	f := newFixture(t)
	c := f.connect(t, "anon")

	f.send(c, constants.EventJoinFaculty, testRooms[0])
	f.send(c, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "salam"})
	f.send(c, constants.EventSendPrivateMessage, map[string]any{"receiverId": 2, "message": "salam"})
	f.send(c, constants.EventLoadPrivateMessages, 2)
	f.send(c, constants.EventBlockUser, 2)
	f.send(c, constants.EventReportUser, 2)

	assertSilent(t, c)
	got, _ := f.server.Store().GroupMessages(testRooms[0])
	assert.Empty(t, got)
	assert.Empty(t, f.blocks.pairs)
	assert.Empty(t, f.reports.reports)
}

func TestGroupMessage_StoredThenFannedOut(t *testing.T) {
	f := newFixture(t)
	f.settings.set(constants.SettingFilterWords, "fakap")
	a := f.login(t, "a", 1)
	b := f.login(t, "b", 2)
	assert.Empty(t, f.join(t, a, testRooms[0]))
	f.join(t, b, testRooms[0])

	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "bu fakap idi"})

	stored, err := f.server.Store().GroupMessages(testRooms[0])
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "bu ***** idi", stored[0].MessageText)
	assert.Equal(t, uint(1), stored[0].SenderID)
	assert.Equal(t, "Aygün", stored[0].Sender.FullName)
	assert.NotEmpty(t, stored[0].ID)
	assert.True(t, stored[0].Timestamp.Equal(f.now))

	for _, c := range []*Client{a, b} {
		ev, data := recv(t, c)
		assert.Equal(t, constants.EventNewGroupMessage, ev)
		var m Message
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Equal(t, stored[0].ID, m.ID)
		assert.Equal(t, "bu ***** idi", m.MessageText)
	}

	// a later joiner gets the message in the snapshot
	c := f.login(t, "c", 3)
	history := f.join(t, c, testRooms[0])
	require.Len(t, history, 1)
	assert.Equal(t, stored[0].ID, history[0].ID)
}

func TestGroupMessage_SenderSnapshotIsFrozen(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)
	f.join(t, a, testRooms[0])
	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "salam"})
	recv(t, a)

	f.users.mu.Lock()
	f.users.users[1].FullName = "Yeni ad"
	f.users.mu.Unlock()

	stored, _ := f.server.Store().GroupMessages(testRooms[0])
	assert.Equal(t, "Aygün", stored[0].Sender.FullName)
}

func TestGroupMessage_BlockedPartiesExcluded(t *testing.T) {
	f := newFixture(t)
	f.blocks.pairs[[2]uint{1, 2}] = true // A blocks B
	a := f.login(t, "a", 1)
	b := f.login(t, "b", 2)
	c := f.login(t, "c", 3)
	for _, conn := range []*Client{a, b, c} {
		f.join(t, conn, testRooms[0])
	}

	f.send(b, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "salam"})

	ev, _ := recv(t, c)
	assert.Equal(t, constants.EventNewGroupMessage, ev)
	ev, _ = recv(t, b)
	assert.Equal(t, constants.EventNewGroupMessage, ev)
	assertSilent(t, a)

	// and the other direction
	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "hey"})
	recv(t, a)
	recv(t, c)
	assertSilent(t, b)
}

func TestGroupMessage_DroppedInputs(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)
	f.join(t, a, testRooms[0])

	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "   "})
	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "123456789012345678901"})
	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: "Yoxdur", Message: "salam"})
	f.server.HandleFrame(context.Background(), a.ID, []byte("not json"))

	assertSilent(t, a)
	stored, _ := f.server.Store().GroupMessages(testRooms[0])
	assert.Empty(t, stored)
}

func TestGroupMessage_DependencyFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)
	f.join(t, a, testRooms[0])

	f.blocks.err = errors.New("timeout")
	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "salam"})
	f.blocks.err = nil

	f.settings.mu.Lock()
	f.settings.err = errors.New("timeout")
	f.settings.mu.Unlock()
	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "salam"})

	assertSilent(t, a)
	stored, _ := f.server.Store().GroupMessages(testRooms[0])
	assert.Empty(t, stored)
}

func TestPrivateMessage_DeliveredToReceiverAndEchoed(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)
	b1 := f.login(t, "b1", 2)
	b2 := f.login(t, "b2", 2)
	a2 := f.login(t, "a2", 1)

	f.send(a, constants.EventSendPrivateMessage, map[string]any{"receiverId": "2", "message": "salam"})

	for _, c := range []*Client{a, b1, b2} {
		ev, data := recv(t, c)
		assert.Equal(t, constants.EventNewPrivateMessage, ev)
		var m Message
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Equal(t, uint(2), m.ReceiverID)
		assert.Equal(t, "salam", m.MessageText)
	}
	// only the sending connection gets the echo
	assertSilent(t, a2)

	f.send(b1, constants.EventLoadPrivateMessages, 1)
	ev, data := recv(t, b1)
	assert.Equal(t, constants.EventLoadPrivateMessages, ev)
	var history []Message
	require.NoError(t, json.Unmarshal(data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, uint(1), history[0].SenderID)
}

func TestPrivateMessage_BlockedNeverStored(t *testing.T) {
	f := newFixture(t)
	f.blocks.pairs[[2]uint{2, 1}] = true // B blocks A
	a := f.login(t, "a", 1)
	b := f.login(t, "b", 2)

	f.send(a, constants.EventSendPrivateMessage, map[string]any{"receiverId": 2, "message": "salam"})
	ev, data := recv(t, a)
	assert.Equal(t, constants.EventError, ev)
	var e errorPayload
	require.NoError(t, json.Unmarshal(data, &e))
	assert.Equal(t, constants.MsgMessageNotSent, e.Message)

	f.send(b, constants.EventSendPrivateMessage, map[string]any{"receiverId": 1, "message": "salam"})
	ev, _ = recv(t, b)
	assert.Equal(t, constants.EventError, ev)

	assertSilent(t, a)
	assert.Empty(t, f.server.Store().PrivateMessages(PairKey(1, 2)))
}

func TestPrivateMessage_InvalidReceiver(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)

	for _, receiver := range []any{1, 0, 404, "x"} {
		f.send(a, constants.EventSendPrivateMessage, map[string]any{"receiverId": receiver, "message": "salam"})
		ev, _ := recv(t, a)
		assert.Equal(t, constants.EventError, ev, "receiver %v", receiver)
	}
	assert.Equal(t, 0, f.server.Store().PrivateCount())
}

func TestJoinFaculty_UnknownRoom(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)
	f.send(a, constants.EventJoinFaculty, "Yoxdur")
	ev, _ := recv(t, a)
	assert.Equal(t, constants.EventError, ev)
	_, ok := f.server.Rooms().RoomOf("a")
	assert.False(t, ok)
}

func TestLeaveFaculty_StopsDelivery(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)
	b := f.login(t, "b", 2)
	f.join(t, a, testRooms[0])
	f.join(t, b, testRooms[0])

	f.send(b, constants.EventLeaveFaculty, nil)
	f.send(a, constants.EventSendGroupMessage, groupMessageRequest{Faculty: testRooms[0], Message: "salam"})
	recv(t, a)
	assertSilent(t, b)
}

func TestBlockAndReport(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)

	f.send(a, constants.EventBlockUser, 2)
	ev, data := recv(t, a)
	assert.Equal(t, constants.EventUserBlocked, ev)
	var ack ackResult
	require.NoError(t, json.Unmarshal(data, &ack))
	assert.True(t, ack.Success)
	assert.True(t, f.blocks.pairs[[2]uint{1, 2}])

	f.send(a, constants.EventReportUser, "3")
	ev, data = recv(t, a)
	assert.Equal(t, constants.EventUserReported, ev)
	require.NoError(t, json.Unmarshal(data, &ack))
	assert.True(t, ack.Success)
	assert.Equal(t, [][2]uint{{1, 3}}, f.reports.reports)

	types := map[string]uint{}
	for i := 0; i < 2; i++ {
		select {
		case e := <-f.publisher.events:
			assert.Equal(t, "1", e.ActorID)
			types[e.Type] = e.TargetID
		case <-time.After(time.Second):
			t.Fatal("moderation event not published")
		}
	}
	assert.Equal(t, map[string]uint{mq.EventUserBlocked: 2, mq.EventUserReported: 3}, types)
}

func TestBlockAndReport_Failures(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)
	f.blocks.err = errors.New("db down")
	f.reports.err = errors.New("db down")

	f.send(a, constants.EventBlockUser, 2)
	f.send(a, constants.EventReportUser, 2)
	f.send(a, constants.EventBlockUser, 1)

	for _, want := range []string{constants.EventUserBlocked, constants.EventUserReported, constants.EventUserBlocked} {
		ev, data := recv(t, a)
		assert.Equal(t, want, ev)
		var ack ackResult
		require.NoError(t, json.Unmarshal(data, &ack))
		assert.False(t, ack.Success)
	}
}

func TestDetach_CleansRegistryAndRoom(t *testing.T) {
	f := newFixture(t)
	a := f.login(t, "a", 1)
	f.join(t, a, testRooms[0])

	f.server.Detach("a")
	f.server.Detach("a")

	assert.Empty(t, f.server.Registry().ConnectionsFor(1))
	_, ok := f.server.Rooms().RoomOf("a")
	assert.False(t, ok)
	_, open := <-a.send
	assert.False(t, open)
}

func TestClose_RefusesNewClients(t *testing.T) {
	f := newFixture(t)
	f.login(t, "a", 1)
	f.server.Close()
	assert.Equal(t, 0, f.server.Registry().OnlineCount())
	assert.False(t, f.server.Attach(newClient("late", nil, 1)))
}

func TestClient_FullQueueDrops(t *testing.T) {
	c := newClient("c", nil, 1)
	assert.True(t, c.enqueue([]byte("1")))
	assert.False(t, c.enqueue([]byte("2")))
	c.closeSend()
	assert.False(t, c.enqueue([]byte("3")))
}
