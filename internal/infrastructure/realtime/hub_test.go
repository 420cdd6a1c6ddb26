package realtime_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gorilla/websocket"

	"github.com/Solvit-Africa-Training-Center/chat-api/internal/infrastructure/realtime"
)

// wsPair is one end-to-end websocket: the server-side realtime.Connection and
// the client-side *websocket.Conn a test reads from.
type wsPair struct {
	conn   *realtime.Connection
	client *websocket.Conn
}

// dialPair upgrades a loopback websocket and wraps the server side in a
// realtime.Connection for the given user.
func dialPair(userID string) (*wsPair, func()) {
	upgrader := websocket.Upgrader{}
	serverSide := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		Expect(err).NotTo(HaveOccurred())
		serverSide <- ws
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	Expect(err).NotTo(HaveOccurred())

	var ws *websocket.Conn
	Eventually(serverSide).Should(Receive(&ws))

	pair := &wsPair{
		conn:   realtime.NewConnection(userID, ws),
		client: client,
	}
	cleanup := func() {
		_ = client.Close()
		srv.Close()
	}
	return pair, cleanup
}

// readText reads one text frame from the client side with a deadline.
func readText(client *websocket.Conn) (string, error) {
	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	return string(data), err
}

var _ = Describe("Hub", func() {
	var hub *realtime.Hub

	BeforeEach(func() {
		hub = realtime.NewHub()
	})

	AfterEach(func() {
		hub.Close()
	})

	It("delivers a broadcast to every joined connection, sender included", func() {
		alice, cleanupA := dialPair("alice")
		defer cleanupA()
		bob, cleanupB := dialPair("bob")
		defer cleanupB()

		hub.Join("conv-1", alice.conn)
		hub.Join("conv-1", bob.conn)

		delivered := hub.Broadcast("conv-1", []byte(`{"type":"message.created"}`))
		Expect(delivered).To(Equal(2))

		for _, client := range []*websocket.Conn{alice.client, bob.client} {
			got, err := readText(client)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(ContainSubstring("message.created"))
		}
	})

	It("does not leak broadcasts across conversations", func() {
		alice, cleanupA := dialPair("alice")
		defer cleanupA()
		carol, cleanupC := dialPair("carol")
		defer cleanupC()

		hub.Join("conv-1", alice.conn)
		hub.Join("conv-2", carol.conn)

		delivered := hub.Broadcast("conv-1", []byte("hello"))
		Expect(delivered).To(Equal(1))

		got, err := readText(alice.client)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("hello"))

		_, err = readText(carol.client)
		Expect(err).To(HaveOccurred()) // read deadline: nothing arrived
	})

	It("stops delivering to a connection after it leaves", func() {
		alice, cleanupA := dialPair("alice")
		defer cleanupA()

		hub.Join("conv-1", alice.conn)
		hub.Leave("conv-1", alice.conn)

		Expect(hub.Broadcast("conv-1", []byte("after leave"))).To(BeZero())
	})

	It("tracks user presence per conversation across multiple connections", func() {
		first, cleanup1 := dialPair("alice")
		defer cleanup1()
		second, cleanup2 := dialPair("alice")
		defer cleanup2()

		hub.Join("conv-1", first.conn)
		hub.Join("conv-1", second.conn)

		Expect(hub.HasUser("conv-1", "alice")).To(BeTrue())
		Expect(hub.HasUser("conv-1", "bob")).To(BeFalse())
		Expect(hub.HasUser("conv-2", "alice")).To(BeFalse())

		hub.Leave("conv-1", first.conn)
		Expect(hub.HasUser("conv-1", "alice")).To(BeTrue(), "one of two connections remains")
		hub.Leave("conv-1", second.conn)
		Expect(hub.HasUser("conv-1", "alice")).To(BeFalse())
	})

	It("counts only accepted deliveries when a connection is already closed", func() {
		alice, cleanupA := dialPair("alice")
		defer cleanupA()
		bob, cleanupB := dialPair("bob")
		defer cleanupB()

		hub.Join("conv-1", alice.conn)
		hub.Join("conv-1", bob.conn)

		bob.conn.Close(websocket.CloseNormalClosure, "bye")

		Expect(hub.Broadcast("conv-1", []byte("hi"))).To(Equal(1))
	})
})

var _ = Describe("Connection", func() {
	It("refuses sends after close", func() {
		pair, cleanup := dialPair("alice")
		defer cleanup()

		pair.conn.Start()
		pair.conn.Close(websocket.CloseNormalClosure, "done")
		Expect(pair.conn.Send([]byte("late"))).To(MatchError(realtime.ErrConnClosed))
	})

	It("closes the client with the negotiated code", func() {
		pair, cleanup := dialPair("alice")
		defer cleanup()

		pair.conn.Close(realtime.CloseForbidden, "forbidden")

		_ = pair.client.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := pair.client.ReadMessage()
		var closeErr *websocket.CloseError
		Expect(err).To(BeAssignableToTypeOf(closeErr))
		closeErr = err.(*websocket.CloseError)
		Expect(closeErr.Code).To(Equal(realtime.CloseForbidden))
	})
})
