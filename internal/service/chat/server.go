// Package chat is the realtime core: connection registry, faculty rooms,
// the in-memory message store, the moderation filter and the expiry
// sweeper, fronted by a websocket gateway.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"bsu_chat_server/internal/infrastructure/mq"
	"bsu_chat_server/internal/model"
	"bsu_chat_server/pkg/constants"
	"bsu_chat_server/pkg/errorx"
	"bsu_chat_server/pkg/util/snowflake"
	"bsu_chat_server/pkg/util/timezone"

	"go.uber.org/zap"
)

// UserDirectory resolves identities.
type UserDirectory interface {
	FindById(id uint) (*model.UserInfo, error)
}

// BlockDirectory reads and writes directed block relations.
type BlockDirectory interface {
	FindBlockedIds(blockerID uint) ([]uint, error)
	FindBlockerIds(blockedID uint) ([]uint, error)
	ExistsBetween(a, b uint) (bool, error)
	Create(blockerID, blockedID uint) error
}

// ReportDirectory records user reports.
type ReportDirectory interface {
	Create(reporterID, reportedID uint) error
}

// SettingsReader returns setting values, "" for unset keys.
type SettingsReader interface {
	GetValues(ctx context.Context, keys ...string) (map[string]string, error)
}

// ServerConfig wires the chat server.
type ServerConfig struct {
	Users     UserDirectory
	Blocks    BlockDirectory
	Reports   ReportDirectory
	Settings  SettingsReader
	Publisher mq.EventPublisher // nil disables moderation events

	Rooms            []string // faculty rooms, constants.Faculties when empty
	MaxMessageLength int      // runes
	SendBufferSize   int      // outbound frames queued per connection
	EventTimeout     time.Duration
	Now              func() time.Time
}

// Server owns the realtime state and handles inbound events.
type Server struct {
	registry *Registry
	rooms    *RoomRouter
	store    *MessageStore

	users     UserDirectory
	blocks    BlockDirectory
	reports   ReportDirectory
	settings  SettingsReader
	publisher mq.EventPublisher

	maxMessageLength int
	sendBufferSize   int
	eventTimeout     time.Duration
	now              func() time.Time

	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
}

// NewServer builds a server with empty state.
func NewServer(cfg ServerConfig) *Server {
	rooms := cfg.Rooms
	if len(rooms) == 0 {
		rooms = defaultRooms()
	}
	registry := NewRegistry()
	s := &Server{
		registry:         registry,
		rooms:            NewRoomRouter(registry, rooms),
		store:            NewMessageStore(rooms),
		users:            cfg.Users,
		blocks:           cfg.Blocks,
		reports:          cfg.Reports,
		settings:         cfg.Settings,
		publisher:        cfg.Publisher,
		maxMessageLength: cfg.MaxMessageLength,
		sendBufferSize:   cfg.SendBufferSize,
		eventTimeout:     cfg.EventTimeout,
		now:              cfg.Now,
		clients:          make(map[string]*Client),
	}
	if s.maxMessageLength <= 0 {
		s.maxMessageLength = 2000
	}
	if s.sendBufferSize <= 0 {
		s.sendBufferSize = constants.CHANNEL_SIZE
	}
	if s.eventTimeout <= 0 {
		s.eventTimeout = 5 * time.Second
	}
	if s.now == nil {
		s.now = timezone.Now
	}
	return s
}

// Store exposes the message store to the sweeper.
func (s *Server) Store() *MessageStore { return s.store }

// Registry exposes the connection registry.
func (s *Server) Registry() *Registry { return s.registry }

// Rooms exposes the room router.
func (s *Server) Rooms() *RoomRouter { return s.rooms }

// Attach makes c reachable for pushes. It fails once the server is closed.
func (s *Server) Attach(c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.clients[c.ID] = c
	return true
}

// Detach forgets the connection everywhere and closes its send queue.
// Safe to call more than once.
func (s *Server) Detach(connID string) {
	s.mu.Lock()
	c, ok := s.clients[connID]
	delete(s.clients, connID)
	s.mu.Unlock()

	s.rooms.Leave(connID)
	s.registry.Unbind(connID)
	if ok {
		c.closeSend()
	}
}

// Close detaches every client and refuses new ones.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	ids := make([]string, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Detach(id)
	}
	zap.L().Info("chat server closed", zap.Int("connections", len(ids)))
}

// envelope is the frame format in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type authResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ackResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type groupMessageRequest struct {
	Faculty string `json:"faculty"`
	Message string `json:"message"`
}

type privateMessageRequest struct {
	ReceiverID flexID `json:"receiverId"`
	Message    string `json:"message"`
}

// flexID accepts an identity id sent as a JSON number or numeric string.
type flexID uint

func (f *flexID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeInvalidParam, "invalid id %q", raw)
	}
	*f = flexID(n)
	return nil
}

func decodeID(data json.RawMessage) (uint, bool) {
	var id flexID
	if err := json.Unmarshal(data, &id); err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// HandleFrame decodes one inbound frame from connID and dispatches it.
// Malformed frames are logged and dropped.
func (s *Server) HandleFrame(ctx context.Context, connID string, frame []byte) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		zap.L().Debug("malformed frame", zap.String("conn", connID), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.eventTimeout)
	defer cancel()

	switch env.Event {
	case constants.EventAuthenticate:
		s.handleAuthenticate(connID, env.Data)
	case constants.EventJoinFaculty:
		s.handleJoinFaculty(connID, env.Data)
	case constants.EventLeaveFaculty:
		s.rooms.Leave(connID)
	case constants.EventSendGroupMessage:
		s.handleSendGroupMessage(ctx, connID, env.Data)
	case constants.EventSendPrivateMessage:
		s.handleSendPrivateMessage(ctx, connID, env.Data)
	case constants.EventLoadPrivateMessages:
		s.handleLoadPrivateMessages(connID, env.Data)
	case constants.EventBlockUser:
		s.handleBlockUser(connID, env.Data)
	case constants.EventReportUser:
		s.handleReportUser(connID, env.Data)
	default:
		zap.L().Debug("unknown event", zap.String("conn", connID), zap.String("event", env.Event))
	}
}

func (s *Server) handleAuthenticate(connID string, data json.RawMessage) {
	userID, ok := decodeID(data)
	if !ok {
		s.push(connID, constants.EventAuthenticated, authResult{Error: constants.MsgUserNotFound})
		return
	}
	user, err := s.users.FindById(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			s.push(connID, constants.EventAuthenticated, authResult{Error: constants.MsgUserNotFound})
			return
		}
		zap.L().Error("authenticate lookup failed", zap.Uint("user", userID), zap.Error(err))
		s.push(connID, constants.EventAuthenticated, authResult{Error: constants.MsgSomethingWrong})
		return
	}
	if !user.IsActive {
		s.push(connID, constants.EventAuthenticated, authResult{Error: constants.MsgUserNotFound})
		return
	}
	if err := s.registry.Bind(connID, user.ID); err != nil {
		s.push(connID, constants.EventAuthenticated, authResult{Error: constants.MsgAlreadySignedIn})
		return
	}
	zap.L().Debug("connection authenticated", zap.String("conn", connID), zap.Uint("user", user.ID))
	s.push(connID, constants.EventAuthenticated, authResult{Success: true})
}

func (s *Server) handleJoinFaculty(connID string, data json.RawMessage) {
	if _, ok := s.registry.IdentityOf(connID); !ok {
		return
	}
	var faculty string
	if err := json.Unmarshal(data, &faculty); err != nil {
		return
	}
	// join and history are taken under the room lock so the snapshot and
	// later pushes neither overlap nor leave a gap
	err := s.store.ViewGroup(faculty, func(history []Message) error {
		if err := s.rooms.Join(connID, faculty); err != nil {
			return err
		}
		s.push(connID, constants.EventLoadMessages, history)
		return nil
	})
	if errors.Is(err, ErrUnknownRoom) {
		s.push(connID, constants.EventError, errorPayload{Message: ErrUnknownRoom.Msg})
	}
}

// validText trims text and applies the blank and length checks.
func (s *Server) validText(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > s.maxMessageLength {
		return "", false
	}
	return text, true
}

func (s *Server) filterWords(ctx context.Context) ([]string, error) {
	values, err := s.settings.GetValues(ctx, constants.SettingFilterWords)
	if err != nil {
		return nil, err
	}
	return ParseFilterWords(values[constants.SettingFilterWords]), nil
}

func (s *Server) handleSendGroupMessage(ctx context.Context, connID string, data json.RawMessage) {
	senderID, ok := s.registry.IdentityOf(connID)
	if !ok {
		return
	}
	var req groupMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}
	text, ok := s.validText(req.Message)
	if !ok || !s.rooms.IsRoom(req.Faculty) {
		return
	}

	// every directory read happens before the store is touched
	sender, err := s.users.FindById(senderID)
	if err != nil {
		zap.L().Error("group send: sender lookup failed", zap.Uint("user", senderID), zap.Error(err))
		return
	}
	if !sender.IsActive {
		return
	}
	blockedByMe, err := s.blocks.FindBlockedIds(senderID)
	if err != nil {
		zap.L().Error("group send: blocked list failed", zap.Uint("user", senderID), zap.Error(err))
		return
	}
	blockingMe, err := s.blocks.FindBlockerIds(senderID)
	if err != nil {
		zap.L().Error("group send: blocker list failed", zap.Uint("user", senderID), zap.Error(err))
		return
	}
	words, err := s.filterWords(ctx)
	if err != nil {
		zap.L().Error("group send: filter words unavailable", zap.Error(err))
		return
	}

	msg := Message{
		ID:          snowflake.GenerateIDString(),
		SenderID:    senderID,
		Sender:      sender.Sender(),
		MessageText: Apply(text, words),
		Timestamp:   s.now(),
	}
	err = s.store.AppendGroup(req.Faculty, msg, func(m Message) {
		recipients := s.rooms.RecipientsExcluding(req.Faculty, blockedByMe, blockingMe)
		s.broadcast(recipients, constants.EventNewGroupMessage, m)
	})
	if err != nil {
		zap.L().Warn("group send: append failed", zap.String("faculty", req.Faculty), zap.Error(err))
	}
}

func (s *Server) handleSendPrivateMessage(ctx context.Context, connID string, data json.RawMessage) {
	senderID, ok := s.registry.IdentityOf(connID)
	if !ok {
		return
	}
	var req privateMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.push(connID, constants.EventError, errorPayload{Message: constants.MsgMessageNotSent})
		return
	}
	receiverID := uint(req.ReceiverID)
	if receiverID == 0 || receiverID == senderID {
		s.push(connID, constants.EventError, errorPayload{Message: constants.MsgMessageNotSent})
		return
	}
	text, ok := s.validText(req.Message)
	if !ok {
		return
	}

	blocked, err := s.blocks.ExistsBetween(senderID, receiverID)
	if err != nil {
		zap.L().Error("private send: block check failed", zap.Uint("user", senderID), zap.Error(err))
		return
	}
	if blocked {
		s.push(connID, constants.EventError, errorPayload{Message: constants.MsgMessageNotSent})
		return
	}
	if _, err := s.users.FindById(receiverID); err != nil {
		if errorx.IsNotFound(err) {
			s.push(connID, constants.EventError, errorPayload{Message: constants.MsgMessageNotSent})
			return
		}
		zap.L().Error("private send: receiver lookup failed", zap.Uint("user", receiverID), zap.Error(err))
		return
	}
	sender, err := s.users.FindById(senderID)
	if err != nil {
		zap.L().Error("private send: sender lookup failed", zap.Uint("user", senderID), zap.Error(err))
		return
	}
	if !sender.IsActive {
		return
	}
	words, err := s.filterWords(ctx)
	if err != nil {
		zap.L().Error("private send: filter words unavailable", zap.Error(err))
		return
	}

	msg := Message{
		ID:          snowflake.GenerateIDString(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Sender:      sender.Sender(),
		MessageText: Apply(text, words),
		Timestamp:   s.now(),
	}
	s.store.AppendPrivate(PairKey(senderID, receiverID), msg, func(m Message) {
		targets := append(s.registry.ConnectionsFor(receiverID), connID)
		s.broadcast(targets, constants.EventNewPrivateMessage, m)
	})
}

func (s *Server) handleLoadPrivateMessages(connID string, data json.RawMessage) {
	userID, ok := s.registry.IdentityOf(connID)
	if !ok {
		return
	}
	otherID, ok := decodeID(data)
	if !ok {
		return
	}
	s.push(connID, constants.EventLoadPrivateMessages, s.store.PrivateMessages(PairKey(userID, otherID)))
}

func (s *Server) handleBlockUser(connID string, data json.RawMessage) {
	userID, ok := s.registry.IdentityOf(connID)
	if !ok {
		return
	}
	targetID, ok := decodeID(data)
	if !ok || targetID == userID {
		s.push(connID, constants.EventUserBlocked, ackResult{Error: constants.MsgSomethingWrong})
		return
	}
	if err := s.blocks.Create(userID, targetID); err != nil {
		zap.L().Error("block user failed", zap.Uint("user", userID), zap.Uint("target", targetID), zap.Error(err))
		s.push(connID, constants.EventUserBlocked, ackResult{Error: constants.MsgSomethingWrong})
		return
	}
	s.publish(mq.EventUserBlocked, userID, targetID)
	s.push(connID, constants.EventUserBlocked, ackResult{Success: true})
}

func (s *Server) handleReportUser(connID string, data json.RawMessage) {
	userID, ok := s.registry.IdentityOf(connID)
	if !ok {
		return
	}
	targetID, ok := decodeID(data)
	if !ok || targetID == userID {
		s.push(connID, constants.EventUserReported, ackResult{Error: constants.MsgSomethingWrong})
		return
	}
	if err := s.reports.Create(userID, targetID); err != nil {
		zap.L().Error("report user failed", zap.Uint("user", userID), zap.Uint("target", targetID), zap.Error(err))
		s.push(connID, constants.EventUserReported, ackResult{Error: constants.MsgSomethingWrong})
		return
	}
	s.publish(mq.EventUserReported, userID, targetID)
	s.push(connID, constants.EventUserReported, ackResult{Success: true})
}

func (s *Server) publish(eventType string, actorID, targetID uint) {
	mq.PublishAsync(s.publisher, mq.ModerationEvent{
		Type:     eventType,
		ActorID:  strconv.FormatUint(uint64(actorID), 10),
		TargetID: targetID,
		At:       s.now(),
	}, s.eventTimeout)
}

// push sends one event to one connection.
func (s *Server) push(connID, event string, data any) {
	s.broadcast([]string{connID}, event, data)
}

// broadcast encodes the frame once and queues it on every listed
// connection that is still attached.
func (s *Server) broadcast(connIDs []string, event string, data any) {
	if len(connIDs) == 0 {
		return
	}
	frame, err := json.Marshal(outEnvelope{Event: event, Data: data})
	if err != nil {
		zap.L().Error("encode frame failed", zap.String("event", event), zap.Error(err))
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range connIDs {
		if c, ok := s.clients[id]; ok {
			c.enqueue(frame)
		}
	}
}
