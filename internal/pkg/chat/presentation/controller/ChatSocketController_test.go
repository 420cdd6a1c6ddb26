package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/realtime"
	chat "github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/application/domain"
	"github.com/Solvit-Africa-Training-Center/chat-api/internal/pkg/chat/presentation/controller"
)

var _ = Describe("ChatSocketController", func() {
	var (
		repo  *mockChatRepository
		users *mockUserRepository
		hub   *realtime.Hub
		srv   *httptest.Server
		alice string
		bob   string
	)

	BeforeEach(func() {
		repo = &mockChatRepository{}
		users = &mockUserRepository{}
		hub = realtime.NewHub()

		r := gin.New()
		ctl := controller.NewChatSocketController(repo, users, hub, nil)
		r.GET("/conversations/:conversationId/ws", ctl.Handle())
		srv = httptest.NewServer(r)

		alice = uuid.NewString()
		bob = uuid.NewString()
	})

	AfterEach(func() {
		hub.Close()
		srv.Close()
	})

	dial := func(conversationID, userID string) (*websocket.Conn, *http.Response, error) {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/conversations/" + conversationID + "/ws"
		if userID != "" {
			url += "?user_id=" + userID
		}
		return websocket.DefaultDialer.Dial(url, nil)
	}

	readFrame := func(ws *websocket.Conn) (string, error) {
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := ws.ReadMessage()
		return string(data), err
	}

	expectClose := func(ws *websocket.Conn, code int) {
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := ws.ReadMessage()
		Expect(err).To(HaveOccurred())
		closeErr, ok := err.(*websocket.CloseError)
		Expect(ok).To(BeTrue(), "expected a close frame, got: %v", err)
		Expect(closeErr.Code).To(Equal(code))
	}

	It("closes unauthenticated connections with 4401", func() {
		ws, _, err := dial("conv-1", "")
		Expect(err).NotTo(HaveOccurred())
		defer ws.Close()
		expectClose(ws, realtime.CloseUnauthenticated)
	})

	It("closes non-participants with 4403", func() {
		repo.isParticipantFn = func(_ context.Context, convID, userID string) (bool, error) {
			return false, nil
		}
		ws, _, err := dial("conv-1", alice)
		Expect(err).NotTo(HaveOccurred())
		defer ws.Close()
		expectClose(ws, realtime.CloseForbidden)
	})

	It("acks the join and fans out committed messages to the group", func() {
		sender, _, err := dial("conv-1", alice)
		Expect(err).NotTo(HaveOccurred())
		defer sender.Close()
		receiver, _, err := dial("conv-1", bob)
		Expect(err).NotTo(HaveOccurred())
		defer receiver.Close()

		for _, ws := range []*websocket.Conn{sender, receiver} {
			ack, err := readFrame(ws)
			Expect(err).NotTo(HaveOccurred())
			Expect(ack).To(ContainSubstring(`"connected"`))
		}

		Expect(sender.WriteJSON(gin.H{"type": "message.create", "content": "hello"})).To(Succeed())

		// both ends receive the committed event, the sender included
		for _, ws := range []*websocket.Conn{sender, receiver} {
			frame, err := readFrame(ws)
			Expect(err).NotTo(HaveOccurred())
			Expect(frame).To(ContainSubstring(`"message.created"`))
			Expect(frame).To(ContainSubstring(`"hello"`))
		}
	})

	It("silently drops blank content", func() {
		repo.saveMessageFn = func(_ context.Context, m chat.Message) (*chat.Message, error) {
			Fail("blank content must never reach the store")
			return nil, nil
		}

		ws, _, err := dial("conv-1", alice)
		Expect(err).NotTo(HaveOccurred())
		defer ws.Close()

		_, err = readFrame(ws) // ack
		Expect(err).NotTo(HaveOccurred())

		Expect(ws.WriteJSON(gin.H{"type": "message.create", "content": "   "})).To(Succeed())

		// no error frame, no broadcast: the read deadline expires
		_, err = readFrame(ws)
		Expect(err).To(HaveOccurred())
	})

	It("answers unknown frame types with an error frame", func() {
		ws, _, err := dial("conv-1", alice)
		Expect(err).NotTo(HaveOccurred())
		defer ws.Close()

		_, err = readFrame(ws) // ack
		Expect(err).NotTo(HaveOccurred())

		Expect(ws.WriteJSON(gin.H{"type": "presence.poke"})).To(Succeed())

		frame, err := readFrame(ws)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame).To(ContainSubstring(`"unsupported_type"`))
	})

	It("bumps presence when the connection drops", func() {
		touched := make(chan string, 1)
		repo.touchLastSeenFn = func(_ context.Context, convID, userID string, now time.Time) error {
			select {
			case touched <- userID:
			default:
			}
			return nil
		}

		ws, _, err := dial("conv-1", alice)
		Expect(err).NotTo(HaveOccurred())

		Eventually(touched).Should(Receive(Equal(alice))) // join bump
		Expect(ws.Close()).To(Succeed())
		Eventually(touched).Should(Receive(Equal(alice))) // disconnect bump
	})
})
