package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"messenger/auth"
	"messenger/contract"
	"messenger/domain/event"
	"messenger/gateway"
	"messenger/sink"
)

// newTransport adapts the boundary handlers to plain HTTP. The engine
// core stays transport-agnostic; this adapter only parses requests,
// forwards them to gateway.Handlers and streams live events to
// connected clients.
func newTransport(log *slog.Logger, handlers *gateway.Handlers,
	verifier auth.Verifier, registry contract.IPresenceRegistry, sinkBufferSize int) http.Handler {
	t := &transport{
		log:            log,
		handlers:       handlers,
		verifier:       verifier,
		registry:       registry,
		sinkBufferSize: sinkBufferSize,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /conversation", t.getConversations)
	mux.HandleFunc("GET /conversation/{id}", t.getConversation)
	mux.HandleFunc("DELETE /conversation/{id}", t.deleteConversation)
	mux.HandleFunc("POST /conversation/group", t.createGroup)
	mux.HandleFunc("PATCH /conversation/group/{id}", t.setGroupAdmin)
	mux.HandleFunc("PATCH /conversation/group/status/{id}", t.setGroupStatus)
	mux.HandleFunc("PATCH /conversation/group/add/{id}", t.joinGroup)
	mux.HandleFunc("POST /message", t.sendMessage)
	mux.HandleFunc("PATCH /message/{id}", t.editMessage)
	mux.HandleFunc("DELETE /message/{id}", t.deleteMessage)
	mux.HandleFunc("PATCH /message/self/{id}", t.deleteMessageForSelf)
	mux.HandleFunc("POST /message/group/{id}", t.sendToGroup)
	mux.HandleFunc("GET /connect", t.connect)
	return mux
}

type transport struct {
	log            *slog.Logger
	handlers       *gateway.Handlers
	verifier       auth.Verifier
	registry       contract.IPresenceRegistry
	sinkBufferSize int
}

func token(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func writeResponse(w http.ResponseWriter, resp gateway.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_ = json.NewEncoder(w).Encode(resp.Body)
}

func (t *transport) getConversations(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, t.handlers.GetConversations(r.Context(), token(r)))
}

func (t *transport) getConversation(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, t.handlers.GetConversation(r.Context(), token(r), r.PathValue("id")))
}

func (t *transport) deleteConversation(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, t.handlers.DeleteConversation(r.Context(), token(r), r.PathValue("id")))
}

func (t *transport) createGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Members     []string `json:"members"`
		ImageRef    string   `json:"imageRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResponse(w, gateway.Failure(400, "Invalid request body"))
		return
	}
	req := auth.CreateGroupRequest{Name: body.Name, Description: body.Description, MemberIDs: body.Members}
	writeResponse(w, t.handlers.CreateGroup(r.Context(), token(r), req, body.ImageRef))
}

func (t *transport) setGroupAdmin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Member string `json:"member"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResponse(w, gateway.Failure(400, "Invalid request body"))
		return
	}
	req := auth.SetRoleRequest{MemberID: body.Member, Role: body.Role}
	writeResponse(w, t.handlers.SetGroupAdmin(r.Context(), token(r), r.PathValue("id"), req))
}

func (t *transport) setGroupStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResponse(w, gateway.Failure(400, "Invalid request body"))
		return
	}
	writeResponse(w, t.handlers.SetGroupStatus(r.Context(), token(r), r.PathValue("id"),
		auth.SetStatusRequest{Status: body.Status}))
}

func (t *transport) joinGroup(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, t.handlers.JoinGroup(r.Context(), token(r), r.PathValue("id")))
}

func (t *transport) sendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReceiverID string `json:"receiverId"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResponse(w, gateway.Failure(400, "Invalid request body"))
		return
	}
	req := auth.SendMessageRequest{ReceiverID: body.ReceiverID, Body: body.Message}
	writeResponse(w, t.handlers.SendMessage(r.Context(), token(r), req))
}

func (t *transport) editMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResponse(w, gateway.Failure(400, "Invalid request body"))
		return
	}
	writeResponse(w, t.handlers.EditMessage(r.Context(), token(r), r.PathValue("id"), body.Message))
}

func (t *transport) deleteMessage(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, t.handlers.DeleteMessage(r.Context(), token(r), r.PathValue("id")))
}

func (t *transport) deleteMessageForSelf(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, t.handlers.DeleteMessageForSelf(r.Context(), token(r), r.PathValue("id")))
}

func (t *transport) sendToGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResponse(w, gateway.Failure(400, "Invalid request body"))
		return
	}
	writeResponse(w, t.handlers.SendToGroup(r.Context(), token(r), r.PathValue("id"), body.Message))
}

// connect establishes a long-lived event stream for the caller. It
// registers a dedicated sink in the presence registry and pushes each
// delivered event as one JSON line. Deferred disconnection keeps the
// registry free of dead handles when the client goes away.
func (t *transport) connect(w http.ResponseWriter, r *http.Request) {
	userID, err := t.verifier.ValidateToken(token(r))
	if err != nil {
		writeResponse(w, gateway.FromError(err))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeResponse(w, gateway.Failure(500, "Streaming unsupported"))
		return
	}

	handleID := uuid.NewString()
	connection := sink.NewChannelSink(t.sinkBufferSize)
	t.registry.Connect(userID, handleID, connection)
	defer t.registry.Disconnect(handleID)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			t.log.Debug("client disconnected", "user_id", userID, "handle_id", handleID)
			return
		case evt := <-connection.Events:
			payload, err := event.Marshal(evt)
			if err != nil {
				t.log.Error("event marshal failed", "error", err)
				continue
			}
			if _, err = fmt.Fprintf(w, "%s\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
