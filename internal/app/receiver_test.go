package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/chargily-pay/internal/config"
	"github.com/Adda-Baaj/chargily-pay/pkg/publishers"
	"github.com/Adda-Baaj/chargily-pay/pkg/webhook"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:                "receiver-test",
		ChargilyMode:           "test",
		ChargilySecretKey:      "test_sk_app",
		HTTPTimeout:            time.Second,
		ListenAddr:             "127.0.0.1:0",
		WebhookPath:            "/webhooks/chargily",
		MaxBodyBytes:           1 << 20,
		ShutdownTimeout:        time.Second,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(t.TempDir(), "events.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestNewReceiverRequiresSecret(t *testing.T) {
	cfg := baseConfig(t)
	cfg.ChargilySecretKey = ""
	_, err := NewReceiver(context.Background(), cfg, nil)
	assert.Error(t, err)

	_, err = NewReceiver(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestNewReceiverRejectsUnknownMode(t *testing.T) {
	cfg := baseConfig(t)
	cfg.ChargilyMode = "sandbox"
	_, err := NewReceiver(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestReceiverForwardsVerifiedEventsOnce(t *testing.T) {
	var (
		mu       sync.Mutex
		received []publishers.Event
	)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var evt publishers.Event
		if err := json.Unmarshal(body, &evt); err == nil {
			mu.Lock()
			received = append(received, evt)
			mu.Unlock()
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	pubFile := filepath.Join(t.TempDir(), "publishers.yaml")
	require.NoError(t, os.WriteFile(pubFile, []byte(fmt.Sprintf(`
publishers:
  - id: sink
    type: http
    http:
      url: %s
`, sink.URL)), 0o644))

	cfg := baseConfig(t)
	cfg.PublishersFile = pubFile

	rcv, err := NewReceiver(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer rcv.close()

	body := `{"id":"evt_app_1","entity":"event","livemode":"false","type":"checkout.paid","data":{"id":"chk_9"}}`
	sig := webhook.Sign([]byte(body), cfg.ChargilySecretKey)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, cfg.WebhookPath, strings.NewReader(body))
		req.Header.Set(webhook.SignatureHeader, sig)
		rec := httptest.NewRecorder()
		rcv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1, "duplicate delivery must not be forwarded again")
	assert.Equal(t, "evt_app_1", received[0].EventID)
	assert.JSONEq(t, body, string(received[0].Payload))
}

func TestReceiverWithoutPublishersRejectsForgedDelivery(t *testing.T) {
	cfg := baseConfig(t)
	cfg.StorageType = "none"

	rcv, err := NewReceiver(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer rcv.close()

	body := `{"id":"evt_x","type":"checkout.paid"}`
	req := httptest.NewRequest(http.MethodPost, cfg.WebhookPath, strings.NewReader(body))
	req.Header.Set(webhook.SignatureHeader, webhook.Sign([]byte(body), "attacker"))
	rec := httptest.NewRecorder()
	rcv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReceiverRunStopsOnCancel(t *testing.T) {
	cfg := baseConfig(t)
	rcv, err := NewReceiver(context.Background(), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rcv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestBuildFanoutFailsOnBadFile(t *testing.T) {
	cfg := baseConfig(t)
	cfg.PublishersFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewReceiver(context.Background(), cfg, nil)
	assert.Error(t, err)
}
