package realtime

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"bookinghub/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongDelay  = 90 * time.Second
	pingPeriod = (pongDelay * 8) / 10

	outboundBuffer = 64
	maxHeld        = 1024
	maxFrameSize   = 4096

	// gapWait is how long a live notification may wait for a missing
	// earlier sequence before the gap is read back from the store.
	gapWait = 500 * time.Millisecond
)

var (
	ErrSlowConsumer = errors.New("slow consumer")
	errGapFilled    = errors.New("gap filled")
)

const (
	FrameNotification    = "notification"
	FrameBacklogComplete = "backlog_complete"
	FrameAck             = "ack"
	FrameError           = "error"
)

// Frame is the JSON envelope of every websocket message, in both
// directions. Clients only send "ack" frames.
type Frame struct {
	Type         string                 `json:"type"`
	Stream       string                 `json:"stream,omitempty"`
	Sequence     int64                  `json:"sequence,omitempty"`
	Notification *entities.Notification `json:"notification,omitempty"`
	Streams      map[string]int64       `json:"streams,omitempty"`
	Error        *ErrorBody             `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Reconciler is the slice of the notification use case a session needs.
type Reconciler interface {
	Replay(ctx context.Context, actor entities.Identity, stream string, since int64, fn func(entities.Notification) error) error
	Ack(ctx context.Context, actor entities.Identity, stream string, sequence int64) (int64, error)
	ResumePoint(ctx context.Context, actor entities.Identity, stream string) (int64, error)
}

// ErrorCoder turns a use case error into the code sent in error frames.
type ErrorCoder func(err error) string

// Session is one admitted websocket connection.
//
// Right after admission the session holds live notifications while it
// replays the backlog of each of its streams; held messages already covered
// by the backlog are dropped when it switches to live delivery. Live
// notifications are then released per stream in sequence order: one that
// arrives ahead of a missing sequence waits for it, and a gap that outlives
// gapWait is read back from the store. A client therefore sees every
// sequence after its cursor exactly once and in order.
type Session struct {
	id     string
	conn   *websocket.Conn
	out    chan entities.Notification
	done   chan struct{}
	closer sync.Once

	mu      sync.Mutex
	holding bool
	held    []entities.Notification
	// high is the last sequence queued per stream; pending holds sequences
	// that arrived ahead of it, ascending.
	high     map[string]int64
	pending  map[string][]entities.Notification
	nPending int
	gaps     chan struct{}
}

var _ Channel = (*Session)(nil)

func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		id:      uuid.NewString(),
		conn:    conn,
		out:     make(chan entities.Notification, outboundBuffer),
		done:    make(chan struct{}),
		holding: true,
		high:    make(map[string]int64),
		pending: make(map[string][]entities.Notification),
		gaps:    make(chan struct{}, 1),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Deliver(n entities.Notification) error {
	select {
	case <-s.done:
		return ErrChannelClosed
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holding {
		if len(s.held) >= maxHeld {
			go s.Close()
			return ErrSlowConsumer
		}
		s.held = append(s.held, n)
		return nil
	}
	return s.enqueueLocked(n)
}

func (s *Session) enqueueLocked(n entities.Notification) error {
	key := n.Recipient.StreamKey()
	high := s.high[key]
	switch {
	case n.Sequence <= high:
		return nil
	case n.Sequence > high+1:
		return s.holdLocked(key, n)
	}
	if err := s.sendLocked(n); err != nil {
		return err
	}
	s.high[key] = n.Sequence
	return s.drainLocked(key)
}

// holdLocked parks n until the sequences before it are queued.
func (s *Session) holdLocked(key string, n entities.Notification) error {
	p := s.pending[key]
	i := sort.Search(len(p), func(i int) bool { return p[i].Sequence >= n.Sequence })
	if i < len(p) && p[i].Sequence == n.Sequence {
		return nil
	}
	if s.nPending >= maxHeld {
		go s.Close()
		return ErrSlowConsumer
	}
	p = append(p, entities.Notification{})
	copy(p[i+1:], p[i:])
	p[i] = n
	s.pending[key] = p
	s.nPending++
	select {
	case s.gaps <- struct{}{}:
	default:
	}
	return nil
}

// drainLocked queues the pending notifications of key that now follow on.
func (s *Session) drainLocked(key string) error {
	p := s.pending[key]
	for len(p) > 0 && p[0].Sequence <= s.high[key]+1 {
		n := p[0]
		p = p[1:]
		s.nPending--
		if n.Sequence <= s.high[key] {
			continue
		}
		if err := s.sendLocked(n); err != nil {
			return err
		}
		s.high[key] = n.Sequence
	}
	if len(p) == 0 {
		delete(s.pending, key)
	} else {
		s.pending[key] = p
	}
	return nil
}

func (s *Session) sendLocked(n entities.Notification) error {
	select {
	case s.out <- n:
		return nil
	default:
		go s.Close()
		return ErrSlowConsumer
	}
}

// fillGaps reads the sequences missing in front of each stream's pending
// notifications back from the store and queues them. Sequences the store
// does not have either are skipped so the stream cannot stall.
func (s *Session) fillGaps(ctx context.Context, reconciler Reconciler, actor entities.Identity) error {
	type gap struct{ after, before int64 }
	s.mu.Lock()
	gaps := make(map[string]gap, len(s.pending))
	for key, p := range s.pending {
		gaps[key] = gap{after: s.high[key], before: p[0].Sequence}
	}
	s.mu.Unlock()

	for key, g := range gaps {
		var missing []entities.Notification
		err := reconciler.Replay(ctx, actor, key, g.after, func(n entities.Notification) error {
			if n.Sequence >= g.before {
				return errGapFilled
			}
			missing = append(missing, n)
			return nil
		})
		if err != nil && !errors.Is(err, errGapFilled) {
			return err
		}

		s.mu.Lock()
		for _, n := range missing {
			if err := s.enqueueLocked(n); err != nil {
				s.mu.Unlock()
				return err
			}
		}
		if p := s.pending[key]; len(p) > 0 && p[0].Sequence > s.high[key]+1 {
			log.Printf("[realtime][session] skipping gap session_id=%s stream=%s after=%d before=%d", s.id, key, s.high[key], p[0].Sequence)
			s.high[key] = p[0].Sequence - 1
			err = s.drainLocked(key)
		}
		s.mu.Unlock()
		if err != nil {
			return err
		}
	}

	// later gaps of the same stream wait for the next round
	s.mu.Lock()
	if len(s.pending) > 0 {
		select {
		case s.gaps <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
	return nil
}

// Close stops the session. Safe to call more than once and from any
// goroutine.
func (s *Session) Close() {
	s.closer.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// Cursor aliases let a client name its streams before it knows the subject
// id the credential resolves to.
const (
	CursorSelf  = "self"
	CursorGroup = "group"
)

var cursorAliases = [...]string{CursorSelf, CursorGroup}

// Serve admits the connection, replays every stream from its cursor, then
// pushes live notifications and handles client acks until the client goes
// away, ctx is done or the session is evicted. cursors overrides the stored
// acknowledged cursor per stream key or alias.
func (s *Session) Serve(ctx context.Context, registry *Registry, reconciler Reconciler, credential string, cursors map[string]int64, code ErrorCoder) error {
	defer s.Close()

	actor, err := registry.Admit(credential, s)
	if err != nil {
		s.writeError(code(err), err)
		return err
	}
	defer registry.Remove(s)

	streams := []string{actor.SubjectID}
	if g := actor.Role.Group(); g != "" {
		streams = append(streams, entities.GroupStreamKey(g))
	}

	marks := make(map[string]int64, len(streams))
	for i, stream := range streams {
		since, ok := cursors[stream]
		if !ok {
			since, ok = cursors[cursorAliases[i]]
		}
		if !ok {
			if since, err = reconciler.ResumePoint(ctx, actor, stream); err != nil {
				s.writeError(code(err), err)
				return err
			}
		}
		last := since
		err := reconciler.Replay(ctx, actor, stream, since, func(n entities.Notification) error {
			last = n.Sequence
			return s.write(Frame{Type: FrameNotification, Stream: stream, Notification: &n})
		})
		if err != nil {
			s.writeError(code(err), err)
			return err
		}
		marks[stream] = last
	}
	if err := s.write(Frame{Type: FrameBacklogComplete, Streams: marks}); err != nil {
		return err
	}
	if err := s.release(marks); err != nil {
		return err
	}
	log.Printf("[realtime][session] live session_id=%s subject_id=%s role=%s", s.id, actor.SubjectID, actor.Role)

	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(pongDelay))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongDelay))
		return nil
	})
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	frames := s.receiveFrames()
	var gapTimer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-s.gaps:
			if gapTimer == nil {
				gapTimer = time.After(gapWait)
			}
		case <-gapTimer:
			gapTimer = nil
			if err := s.fillGaps(ctx, reconciler, actor); err != nil {
				log.Printf("[realtime][session] gap fill failed session_id=%s err=%v", s.id, err)
				return nil
			}
		case n := <-s.out:
			if err := s.write(Frame{Type: FrameNotification, Stream: n.Recipient.StreamKey(), Notification: &n}); err != nil {
				return nil
			}
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			if err := s.handleFrame(ctx, reconciler, actor, f, code); err != nil {
				return nil
			}
		}
	}
}

// release switches the session to live delivery, flushing held
// notifications newer than the replayed backlog.
func (s *Session) release(marks map[string]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range marks {
		s.high[k] = v
	}
	s.holding = false
	held := s.held
	s.held = nil
	for _, n := range held {
		if err := s.enqueueLocked(n); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) handleFrame(ctx context.Context, reconciler Reconciler, actor entities.Identity, f Frame, code ErrorCoder) error {
	if f.Type != FrameAck {
		return s.write(Frame{Type: FrameError, Error: &ErrorBody{Code: "VALIDATION", Message: "unsupported frame type"}})
	}
	acked, err := reconciler.Ack(ctx, actor, f.Stream, f.Sequence)
	if err != nil {
		return s.write(Frame{Type: FrameError, Error: &ErrorBody{Code: code(err), Message: err.Error()}})
	}
	return s.write(Frame{Type: FrameAck, Stream: f.Stream, Sequence: acked})
}

func (s *Session) receiveFrames() <-chan Frame {
	frames := make(chan Frame)
	go func() {
		defer close(frames)
		for {
			// fresh value each time so maps are not reused
			var f Frame
			if err := s.conn.ReadJSON(&f); err != nil {
				return
			}
			select {
			case <-s.done:
				return
			case frames <- f:
			}
		}
	}()
	return frames
}

func (s *Session) write(f Frame) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(f)
}

func (s *Session) writeError(code string, err error) {
	if werr := s.write(Frame{Type: FrameError, Error: &ErrorBody{Code: code, Message: err.Error()}}); werr != nil {
		return
	}
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, code),
		time.Now().Add(writeWait))
}
