package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"datalens/internal/modkit/httpkit"
	perr "datalens/internal/platform/errors"
	"datalens/internal/platform/logger"
	"datalens/internal/services/api/dashboards/domain"
)

const writeWait = 10 * time.Second

// origins are enforced by the cors middleware in front of the router
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*stdhttp.Request) bool { return true },
}

// swagger:route GET /dashboards/{id}/stream Dashboards dashboardsStream
// @Summary Stream widget results over a websocket
// @Description Sends one widget message per executed widget then a done message. Closing the socket stops execution.
// @Tags Dashboards
// @Param id path string true "Dashboard id"
// @Success 101 {object} domain.StreamMessage "switching protocols"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /dashboards/{id}/stream [get]
func (h *handlers) stream(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := chi.URLParam(r, "id")
	// resolve before upgrading so a bad id still gets an envelope
	if _, err := h.svc.Get(r.Context(), id); err != nil {
		httpkit.Handle(func(*stdhttp.Request) httpkit.Response { return httpkit.Error(err) })(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already answered with an http error
		return
	}
	defer func() { _ = conn.Close() }()

	// the handler context outlives a hijacked connection, the reader cancels on close
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx = logger.WithDashboard(ctx, id)
	log := logger.C(ctx)
	d, err := h.svc.Stream(ctx, id, func(wg domain.Widget) error {
		return send(conn, domain.StreamMessage{Type: domain.MessageWidget, DashboardID: id, Widget: &wg})
	})
	switch {
	case err == nil:
		_ = send(conn, domain.StreamMessage{Type: domain.MessageDone, DashboardID: d.ID})
	case ctx.Err() != nil:
		log.Debug().Msg("dashboard stream closed by client")
		return
	default:
		log.Warn().Err(err).Msg("dashboard stream failed")
		_ = send(conn, domain.StreamMessage{Type: domain.MessageError, DashboardID: id, Error: perr.WireFrom(err).Message})
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func send(conn *websocket.Conn, msg domain.StreamMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode stream message")
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
