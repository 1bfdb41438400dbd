package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"adapterforge/internal/delivery"
	"adapterforge/internal/gateway/identity"
	"adapterforge/internal/gateway/run"
	"adapterforge/internal/generator"
	"adapterforge/internal/schema"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// wsStart is the only client message: the answer set plus the delivery
// target. Anything else on the wire is a protocol violation.
type wsStart struct {
	Answers map[string]any `json:"answers"`
	Target  string         `json:"target"`
}

// wsOutbound is one server frame. Progress frames carry log (and maybe
// color); the terminal frame carries result and, on success, resultLink.
type wsOutbound struct {
	Log        string `json:"log,omitempty"`
	Color      string `json:"color,omitempty"`
	Result     *bool  `json:"result,omitempty"`
	ResultLink string `json:"resultLink,omitempty"`
}

type wsState int

const (
	wsAwaitingStart wsState = iota
	wsRunning
	wsDone
)

// CreateWS owns the progress channel: one websocket connection drives at
// most one run.
type CreateWS struct {
	svc      *run.Service
	identity identity.Provider
}

func NewCreateWS(svc *run.Service, provider identity.Provider) *CreateWS {
	if provider == nil {
		provider = identity.NewHeaderProvider()
	}
	return &CreateWS{svc: svc, identity: provider}
}

func (h *CreateWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := h.identity.FromRequest(r)

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		log.Printf("create ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan wsOutbound, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out, ok := <-writeCh:
				if !ok {
					// Channel close means the terminal frame above has
					// been flushed; say goodbye and let the run
					// goroutine tear the connection down.
					_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	var (
		mu    sync.Mutex
		state = wsAwaitingStart
	)
	violate := func(reason string) {
		log.Printf("create ws protocol violation: %s", reason)
		cancel()
	}

	for {
		var in wsStart
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}

		mu.Lock()
		current := state
		mu.Unlock()
		if current != wsAwaitingStart {
			// A second start on the same connection, or trailing frames
			// after the terminal result. Close without a terminal frame.
			violate("unexpected message after start")
			<-writerDone
			return
		}

		target, err := delivery.ParseTarget(strings.TrimSpace(in.Target))
		if err != nil {
			violate(err.Error())
			<-writerDone
			return
		}

		mu.Lock()
		state = wsRunning
		mu.Unlock()

		req := run.StartRequest{
			Answers: schema.Answers(in.Answers),
			Target:  target,
			User:    user,
		}
		go func() {
			out, execErr := h.svc.Execute(ctx, req, wsEmitter{writeCh})
			ok := execErr == nil
			frame := wsOutbound{Result: &ok}
			if ok {
				frame.ResultLink = out.Link
			}
			mu.Lock()
			state = wsDone
			mu.Unlock()
			// The terminal frame is the channel's whole point; unlike
			// progress frames it must never be dropped, so block until
			// queued, wait for the writer to flush it, then close the
			// connection from our side.
			if sendWS(ctx, writeCh, frame) {
				close(writeCh)
				<-writerDone
			}
			conn.Close()
		}()
	}
}

// wsEmitter forwards pipeline lines to the connection's write channel.
type wsEmitter struct {
	ch chan wsOutbound
}

func (e wsEmitter) Log(text, color string) {
	pushWS(e.ch, wsOutbound{Log: text, Color: color})
}

// sendWS queues a frame, blocking until there is room or the connection
// context ends. Reports whether the frame was queued.
func sendWS(ctx context.Context, ch chan wsOutbound, out wsOutbound) bool {
	select {
	case ch <- out:
		return true
	case <-ctx.Done():
		return false
	}
}

// pushWS never blocks a stage on a slow client: when the buffer is full
// the oldest frame is dropped to make room.
func pushWS(ch chan wsOutbound, out wsOutbound) {
	select {
	case ch <- out:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- out:
	default:
	}
}

var _ generator.Emitter = wsEmitter{}
