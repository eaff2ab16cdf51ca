package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_PushNotificationReachesOnlyRecipient(t *testing.T) {
	hub := startHub(t)

	alice := newClient(hub, nil, 1, zerolog.Nop())
	bob := newClient(hub, nil, 2, zerolog.Nop())
	require.True(t, hub.attach(alice))
	require.True(t, hub.attach(bob))

	hub.PushNotification(&models.Notification{ID: 10, UserID: 1, Title: "Account Verified", Type: models.NotificationTypeSystem})

	select {
	case frame := <-alice.send:
		var msg Message
		require.NoError(t, json.Unmarshal(frame, &msg))
		assert.Equal(t, MessageTypeNotification, msg.Type)
		require.NotNil(t, msg.Notification)
		assert.Equal(t, "Account Verified", msg.Notification.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	select {
	case <-bob.send:
		t.Fatal("notification leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := startHub(t)

	client := newClient(hub, nil, 7, zerolog.Nop())
	require.True(t, hub.attach(client))
	assert.Eventually(t, func() bool { return hub.GetClientsCount(7) == 1 }, time.Second, 10*time.Millisecond)

	hub.detach(client)
	assert.Eventually(t, func() bool { return hub.GetClientsCount(7) == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_AttachFailsAfterShutdown(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	<-stopped

	assert.False(t, hub.attach(newClient(hub, nil, 3, zerolog.Nop())))
}

func TestHandler_StreamsNotificationsToAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	handler := NewHandler(hub, nil, zerolog.Nop())

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		ctx := auth.WithPrincipal(c.Request.Context(), auth.Principal{UserID: 42, Role: models.RoleAlumni})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}, handler.HandleConnection)

	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.GetClientsCount(42) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.PushNotification(&models.Notification{ID: 1, UserID: 42, Title: "New Event Payment", Type: models.NotificationTypeEvent})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(frame, &msg))
	assert.Equal(t, "New Event Payment", msg.Notification.Title)
	assert.Equal(t, int64(42), msg.Notification.UserID)
}

func TestHandler_RejectsAnonymousCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(startHub(t), nil, zerolog.Nop())

	router := gin.New()
	router.GET("/ws", handler.HandleConnection)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
