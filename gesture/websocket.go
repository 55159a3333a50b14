package gesture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// DefaultLandmarkPath is where WebsocketSource accepts detector connections.
const DefaultLandmarkPath = "/landmarks"

// WebsocketSource receives detections from an external landmark detector,
// for example a browser page running a hand-landmark model, over a local
// websocket. Each text message is one Detection encoded as JSON:
//
//	{"timestamp": 1234, "hands": [[{"x":0.5,"y":0.5,"z":0}, ...21 points]]}
//
// Only the newest detection is kept; Next never sees a backlog.
type WebsocketSource struct {
	Addr string
	Path string

	log      Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	ln     net.Listener
	srv    *http.Server
	conns  map[*websocket.Conn]struct{}
	frames chan Detection
	closed chan struct{}
}

func NewWebsocketSource(addr string, log Logger) *WebsocketSource {
	return &WebsocketSource{
		Addr: addr,
		Path: DefaultLandmarkPath,
		log:  orNop(log),
		upgrader: websocket.Upgrader{
			// The detector page is served from anywhere on the local machine.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *WebsocketSource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return nil
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}
	path := s.Path
	if path == "" {
		path = DefaultLandmarkPath
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handle)

	s.ln = ln
	s.srv = &http.Server{Handler: mux}
	s.conns = make(map[*websocket.Conn]struct{})
	s.frames = make(chan Detection, 1)
	s.closed = make(chan struct{})

	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("landmark server: %v", err)
		}
	}()
	s.log.Infof("waiting for landmark detector on ws://%s%s", ln.Addr(), path)
	return nil
}

// ListenAddr returns the bound address while the source is open.
func (s *WebsocketSource) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *WebsocketSource) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("landmark upgrade failed: %v", err)
		return
	}
	if !s.track(conn) {
		conn.Close()
		return
	}
	defer s.untrack(conn)
	s.log.Debugf("landmark detector connected from %s", r.RemoteAddr)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debugf("landmark connection closed: %v", err)
			}
			return
		}
		var d Detection
		if err := json.Unmarshal(msg, &d); err != nil {
			s.log.Debugf("dropping malformed detection: %v", err)
			continue
		}
		s.deliver(d)
	}
}

func (s *WebsocketSource) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *WebsocketSource) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conns != nil {
		delete(s.conns, conn)
	}
	s.mu.Unlock()
	conn.Close()
}

// deliver replaces any detection Next has not consumed yet.
func (s *WebsocketSource) deliver(d Detection) {
	s.mu.Lock()
	frames := s.frames
	s.mu.Unlock()
	if frames == nil {
		return
	}
	for {
		select {
		case frames <- d:
			return
		default:
		}
		select {
		case <-frames:
		default:
		}
	}
}

func (s *WebsocketSource) Next(ctx context.Context) (Detection, error) {
	s.mu.Lock()
	frames, closed := s.frames, s.closed
	s.mu.Unlock()
	if frames == nil {
		return Detection{}, ErrSourceClosed
	}

	select {
	case <-ctx.Done():
		return Detection{}, ctx.Err()
	case <-closed:
		return Detection{}, ErrSourceClosed
	case d := <-frames:
		return d, nil
	}
}

func (s *WebsocketSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}
	err := s.srv.Close()
	for conn := range s.conns {
		conn.Close()
	}
	close(s.closed)
	s.srv, s.ln, s.conns, s.frames = nil, nil, nil, nil
	if err != nil {
		return fmt.Errorf("failed to stop landmark server: %w", err)
	}
	return nil
}
