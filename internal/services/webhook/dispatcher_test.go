package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"zeropay/internal/metrics"
	"zeropay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepo serves a fixed set of registrations with the same subscription
// filtering as the real repository.
type stubRepo struct {
	hooks []models.Webhook
}

func (r *stubRepo) Create(w *models.Webhook) error { return nil }

func (r *stubRepo) FindByMerchant(merchantID uint) ([]models.Webhook, error) {
	var out []models.Webhook
	for _, h := range r.hooks {
		if h.MerchantID == merchantID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubRepo) FindSubscribed(merchantID uint, event string) ([]models.Webhook, error) {
	hooks, _ := r.FindByMerchant(merchantID)
	var out []models.Webhook
	for _, h := range hooks {
		if h.SubscribedTo(event) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubRepo) Delete(id, merchantID uint) error { return nil }

type countingRecorder struct {
	metrics.Noop
	dropped   atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
}

func (r *countingRecorder) WebhookDropped() { r.dropped.Add(1) }

func (r *countingRecorder) WebhookDelivery(event, outcome string) {
	if outcome == "delivered" {
		r.delivered.Add(1)
	} else {
		r.failed.Add(1)
	}
}

func sampleTx() models.Transaction {
	return models.Transaction{
		OrderID: "order_abc", MerchantID: 1, Amount: 1000, Currency: "INR",
		Method: models.MethodUPI, Status: models.StatusSuccess,
		CustomerEmail: "buyer@example.com", CreatedAt: time.Now(),
	}
}

func TestDispatcherDeliversSignedPayload(t *testing.T) {
	type received struct {
		body      []byte
		signature string
	}
	got := make(chan received, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- received{body: body, signature: r.Header.Get("X-Signature")}
	}))
	defer server.Close()

	secret := models.NewWebhookSecret()
	repo := &stubRepo{hooks: []models.Webhook{{
		ID: 1, MerchantID: 1, URL: server.URL, Secret: secret,
		Events: models.StringList{models.EventPaymentSuccess},
	}}}
	d := NewDispatcher(repo, DispatcherConfig{Workers: 1, QueueSize: 4}, metrics.Noop{})
	defer d.Stop(context.Background())

	d.Enqueue(1, models.EventPaymentSuccess, sampleTx())

	select {
	case r := <-got:
		var payload Payload
		require.NoError(t, json.Unmarshal(r.body, &payload))
		assert.Equal(t, models.EventPaymentSuccess, payload.Event)
		assert.Equal(t, "order_abc", payload.Data.OrderID)
		assert.Equal(t, 1000.0, payload.Data.Amount)
		assert.Equal(t, "INR", payload.Data.Currency)
		assert.Equal(t, models.StatusSuccess, payload.Data.Status)
		assert.Equal(t, "buyer@example.com", payload.Data.CustomerEmail)

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(r.body)
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), r.signature)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was never delivered")
	}
}

func TestDispatcherFiltersBySubscription(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	repo := &stubRepo{hooks: []models.Webhook{{
		ID: 1, MerchantID: 1, URL: server.URL, Secret: "whsec_x",
		Events: models.StringList{models.EventPaymentRefunded},
	}}}
	d := NewDispatcher(repo, DispatcherConfig{Workers: 1, QueueSize: 4}, metrics.Noop{})

	d.Enqueue(1, models.EventPaymentSuccess, sampleTx())
	d.Enqueue(1, models.EventPaymentFailed, sampleTx())
	d.Enqueue(1, models.EventPaymentRefunded, sampleTx())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Stop(ctx)

	assert.Equal(t, int64(1), hits.Load(), "only the subscribed event reaches the endpoint")
}

func TestEnqueueDoesNotWaitForDelivery(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer once.Do(func() { close(release) })

	repo := &stubRepo{hooks: []models.Webhook{{
		ID: 1, MerchantID: 1, URL: server.URL, Secret: "whsec_x",
		Events: models.StringList{models.EventPaymentSuccess},
	}}}
	d := NewDispatcher(repo, DispatcherConfig{Workers: 1, QueueSize: 4}, metrics.Noop{})

	start := time.Now()
	d.Enqueue(1, models.EventPaymentSuccess, sampleTx())
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 100*time.Millisecond, "enqueue must return before delivery completes")

	once.Do(func() { close(release) })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Stop(ctx)
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()

	repo := &stubRepo{hooks: []models.Webhook{{
		ID: 1, MerchantID: 1, URL: server.URL, Secret: "whsec_x",
		Events: models.StringList{models.EventPaymentSuccess},
	}}}
	rec := &countingRecorder{}
	d := NewDispatcher(repo, DispatcherConfig{Workers: 1, QueueSize: 1}, rec)

	// The first task occupies the worker on the blocked server, the second
	// fills the queue; further enqueues must overflow without blocking.
	deadline := time.Now().Add(2 * time.Second)
	for rec.dropped.Load() == 0 && time.Now().Before(deadline) {
		d.Enqueue(1, models.EventPaymentSuccess, sampleTx())
		time.Sleep(5 * time.Millisecond)
	}
	assert.Greater(t, rec.dropped.Load(), int64(0), "overflow must be dropped, not block")

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Stop(ctx)
}

func TestEnqueueAfterStopIsDropped(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	repo := &stubRepo{hooks: []models.Webhook{{
		ID: 1, MerchantID: 1, URL: server.URL, Secret: "whsec_x",
		Events: models.StringList{models.EventPaymentSuccess},
	}}}
	d := NewDispatcher(repo, DispatcherConfig{Workers: 1, QueueSize: 4}, metrics.Noop{})
	d.Stop(context.Background())

	assert.NotPanics(t, func() {
		d.Enqueue(1, models.EventPaymentSuccess, sampleTx())
	})
	d.Stop(context.Background())
	assert.Equal(t, int64(0), hits.Load())
}

func TestDeliveryRetriesThenFails(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := &stubRepo{hooks: []models.Webhook{{
		ID: 1, MerchantID: 1, URL: server.URL, Secret: "whsec_x",
		Events: models.StringList{models.EventPaymentSuccess},
	}}}
	rec := &countingRecorder{}
	d := NewDispatcher(repo, DispatcherConfig{Workers: 1, QueueSize: 4, MaxRetries: 1}, rec)

	d.Enqueue(1, models.EventPaymentSuccess, sampleTx())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	d.Stop(ctx)

	assert.Equal(t, int64(2), attempts.Load(), "initial attempt plus one retry")
	assert.Equal(t, int64(1), rec.failed.Load())
	assert.Equal(t, int64(0), rec.delivered.Load())
}

func TestSign(t *testing.T) {
	body := []byte(`{"event":"payment.success"}`)
	sig := Sign("whsec_secret", body)

	mac := hmac.New(sha256.New, []byte("whsec_secret"))
	mac.Write(body)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), sig)
	assert.NotEqual(t, sig, Sign("whsec_other", body))
}
