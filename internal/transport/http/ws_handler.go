package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ochirbat/supportchat-server/internal/auth"
	"github.com/ochirbat/supportchat-server/internal/core"
	"github.com/ochirbat/supportchat-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the routing
// core. It resolves the session identity, subscribes the connection to its
// rooms, feeds inbound frames to the router and drains the client's event
// channel back onto the wire.
type WSHandler struct {
	registry *core.Registry
	router   *core.Router
	auth     *auth.Service
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(registry *core.Registry, router *core.Router, authService *auth.Service, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		registry: registry,
		router:   router,
		auth:     authService,
		log:      logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// An unresolvable token leaves the connection open but unsubscribed:
	// it receives nothing and every send is rejected by the router.
	ident, _ := h.auth.Identify(sessionToken(r))
	client := core.NewClient(uuid.NewString(), ident)
	defer client.Close()
	defer h.registry.UnsubscribeAll(client)

	if ident.Valid() {
		h.registry.Subscribe(ident.Username, client)
		if ident.Role == core.RoleAdmin {
			h.registry.Subscribe(core.AdminRoom, client)
		}
		_ = client.Send(&core.Event{
			Kind:   core.EventConnectionStatus,
			Status: "connected",
			User:   ident.Username,
		})
		h.log.Info().Str("username", ident.Username).Str("role", string(ident.Role)).Str("client_id", client.ID).Msg("ws connected")
	} else {
		h.log.Debug().Str("client_id", client.ID).Msg("unauthenticated ws connection")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	client.Close()
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) || errors.Is(err, core.ErrClientClosed) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		switch inbound.Type {
		case proto.InboundTypeSend:
			var data proto.SendMessageData
			if err := json.Unmarshal(inbound.Data, &data); err != nil {
				h.sendError(client, &core.RouteError{Code: core.ErrCodeBadRequest, Message: "malformed send_message payload"})
				continue
			}
			if rerr := h.router.Send(ctx, client, data.Body, data.Receiver); rerr != nil {
				h.sendError(client, rerr)
			}
		default:
			h.sendError(client, &core.RouteError{Code: core.ErrCodeBadRequest, Message: "unknown message type"})
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				return err
			}
		case <-client.Done():
			// The registry pruned this client after a failed delivery.
			return core.ErrClientClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// sendError reports a router failure to the originating connection only.
// It goes through the client's event channel so wire writes stay
// serialized in the write loop.
func (h *WSHandler) sendError(client *core.Client, rerr *core.RouteError) {
	if err := client.Send(&core.Event{Kind: core.EventError, Error: rerr}); err != nil {
		h.log.Debug().Err(err).Str("client_id", client.ID).Msg("failed to queue error event")
	}
}
