package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkorolev/huddle/internal/app"
	"github.com/dkorolev/huddle/internal/config"
	"github.com/dkorolev/huddle/internal/core"
	"github.com/dkorolev/huddle/internal/domain"
)

// Controller owns the websocket endpoint: it upgrades the HTTP request,
// assigns the connection id, runs the read/write pumps and hands every frame
// to the coordinator. Transport close and explicit leave converge on the
// same coordinator cleanup.
type Controller struct {
	coord    *app.Coordinator
	limiter  *JoinLimiter
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, coord *app.Coordinator) *Controller {
	return &Controller{
		coord:   coord,
		limiter: NewJoinLimiter(cfg.JoinLimit, cfg.JoinInterval),
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	cid := domain.NewConnectionID()
	conn := newWSConn(ws, ctl.cfg.SendBuffer)
	sess := core.NewSession(cid, conn)
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, token, sess, conn)
}

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, token string, sess *core.Session, c *wsConn) {
	// Abrupt disconnects land here exactly like explicit leaves: the read
	// fails, the deferred Leave runs, remaining members get user-left.
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(sess.ID())).Msg("readPump closing")
		cancel()
		ctl.coord.Leave(sess)
		c.Close()
	}()

	pongWait := ctl.cfg.PingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("cid", string(sess.ID())).Msg("readPump read error")
				}
				return
			}
			if peekKind(data) == app.KindJoinRoom && !ctl.limiter.Allow(token) {
				log.Warn().Str("module", "signal").Str("cid", string(sess.ID())).Msg("join rate limited")
				ctl.sendError(c, "rate_limited")
				continue
			}
			ctl.coord.HandleFrame(sess, data)
		}
	}
}

func peekKind(data []byte) app.Kind {
	var env struct {
		Kind app.Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	return env.Kind
}

func (ctl *Controller) sendError(c *wsConn, code string) {
	frame, err := (app.Message{Kind: app.KindError, Error: code}).Encode()
	if err != nil {
		return
	}
	_ = c.TrySend(frame)
}
