package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/binding"
	"github.com/vango-dev/viewlets/pkg/container"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/render"
	"github.com/vango-dev/viewlets/pkg/vdom"
	"github.com/vango-dev/viewlets/pkg/viewlet"
)

// setter is implemented by records that accept writes.
type setter interface {
	Set(key string, value any)
}

// Session is one live client. Its container is only touched from the
// session's event loop.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	server    *Server
	conn      *websocket.Conn
	config    *Config
	container *container.Container
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	work    chan func()
	done    chan struct{}
	closed  atomic.Bool
	writeMu sync.Mutex
}

func newSession(s *Server, conn *websocket.Conn) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		ID:     uuid.NewString(),
		server: s,
		conn:   conn,
		config: s.config,
		ctx:    ctx,
		cancel: cancel,
		work:   make(chan func(), s.config.QueueSize),
		done:   make(chan struct{}),
	}
	sess.logger = s.logger.With("session", sess.ID)

	c, err := s.newContainer(s.record, sess.logger, sess.Dispatch, sess.onChange)
	if err != nil {
		cancel()
		return nil, err
	}
	for _, v := range c.Viewlets() {
		if v.ConflictFunc == nil {
			v.ConflictFunc = sess.onConflict
		}
	}
	sess.container = c
	return sess, nil
}

// Start renders the container on the event loop and starts the loops.
func (s *Session) Start() {
	s.work <- s.renderInitial
	go s.ReadLoop()
	go s.WriteLoop()
	go s.EventLoop()
}

// Container returns the session's container. Use it only from work
// queued with Dispatch.
func (s *Session) Container() *container.Container {
	return s.container
}

// Dispatch queues fn to run on the session's event loop. It is safe to
// call from any goroutine; work queued after Close is discarded.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	select {
	case s.work <- fn:
	case <-s.done:
	default:
		s.logger.Warn("work queue full, discarding callback")
	}
}

// ReadLoop reads client messages until the connection fails.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.config.Metrics.RecordWebSocketError("read")
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.push(errorPush(errors.New("V060").Wrap(err)))
			continue
		}
		s.Dispatch(func() { s.handle(msg) })
	}
}

// WriteLoop sends heartbeat pings until the session closes.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
			s.writeMu.Unlock()
			if err != nil {
				s.logger.Error("ping error", "error", err)
				s.config.Metrics.RecordWebSocketError("ping")
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// EventLoop runs queued work. When the session closes it destroys the
// container, so teardown happens on the same goroutine as every other
// container call.
func (s *Session) EventLoop() {
	for {
		select {
		case fn := <-s.work:
			s.execute(fn)
		case <-s.done:
			if err := s.container.Destroy(context.Background()); err != nil {
				s.logger.Warn("destroy container", "error", err)
			}
			return
		}
	}
}

// execute runs fn, recovering from panics.
func (s *Session) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("session panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (s *Session) renderInitial() {
	if _, err := s.container.Render(s.ctx); err != nil {
		s.logger.Error("render container", "error", err)
		s.push(errorPush(err))
		return
	}
	s.pushHTML()
}

// handle applies one client message.
func (s *Session) handle(msg Message) {
	c := s.container
	var err error

	switch msg.Type {
	case MsgShow:
		err = c.ShowViewlet(s.ctx, container.ViewletName(msg.Viewlet), nil)
	case MsgClick:
		node := c.Root().Query(msg.Target)
		if node == nil {
			err = errors.New("V060").WithDetail(fmt.Sprintf("click target %q not found", msg.Target))
			break
		}
		err = c.Dispatch(s.ctx, &container.Event{Type: "click", Target: node})
	case MsgEdit:
		err = s.edit(msg)
	case MsgSet:
		err = s.set(msg)
		if err == nil {
			return
		}
	case MsgRefresh:
	default:
		err = errors.New("V060").WithDetail(fmt.Sprintf("unknown message type %q", msg.Type))
	}

	if err != nil {
		s.push(errorPush(err))
		return
	}
	s.pushHTML()
}

// edit records an unsaved local change to a bound field.
func (s *Session) edit(msg Message) error {
	v := s.container.Viewlet(msg.Viewlet)
	if v == nil {
		return errors.New("V020").WithSubject(msg.Viewlet)
	}
	if msg.Key == "" {
		return errors.New("V060").WithDetail("edit needs a key")
	}
	v.MarkChanged(msg.Key)
	for _, n := range binding.BoundNodes(v.Container, msg.Key) {
		binding.SetBoundValue(n, msg.Value)
	}
	return nil
}

// set writes the shared record. Local edits of the key are considered
// saved.
func (s *Session) set(msg Message) error {
	rec, ok := s.server.record.(setter)
	if !ok {
		return errors.New("V060").WithDetail("record is read-only")
	}
	if msg.Key == "" {
		return errors.New("V060").WithDetail("set needs a key")
	}
	for _, v := range s.container.Viewlets() {
		v.ClearChanged(msg.Key)
	}
	rec.Set(msg.Key, msg.Value)
	return nil
}

// onChange pushes a viewlet after the binding engine refreshed it.
func (s *Session) onChange(b *binding.Binding, _ model.Change) {
	v := b.Viewlet()
	s.push(Push{Type: PushUpdate, Viewlet: v.Name, HTML: render.HTML(v.Container)})
}

// onConflict tells the client a locally edited field changed remotely.
func (s *Session) onConflict(v *viewlet.Viewlet, node *vdom.VNode) {
	p := Push{Type: PushConflict, Viewlet: v.Name}
	if node != nil {
		p.Key = node.Attr(binding.BindAttr)
		p.Value = s.server.record.Get(p.Key)
	}
	s.push(p)
}

func (s *Session) pushHTML() {
	s.push(Push{Type: PushHTML, Session: s.ID, HTML: render.HTML(s.container.Root())})
}

// push writes p to the client.
func (s *Session) push(p Push) {
	if s.closed.Load() {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteJSON(p); err != nil {
		s.logger.Error("write error", "error", err, "type", p.Type)
		s.config.Metrics.RecordWebSocketError("write")
	}
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)
	s.cancel()

	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	s.conn.Close()
	s.server.removeSession(s.ID)
	s.logger.Info("session closed")
}

// IsClosed reports whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that's closed when the session is done.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
