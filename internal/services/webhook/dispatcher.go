// Package webhook manages merchant webhook registrations and delivers
// transaction events to them. Delivery is fire-and-forget: the settlement
// and refund paths enqueue a fan-out task and move on; delivery outcome is
// never observable to them.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"zeropay/internal/metrics"
	"zeropay/internal/models"
	"zeropay/internal/repositories"
)

// Payload is the JSON body delivered to registered endpoints.
type Payload struct {
	Event string      `json:"event"`
	Data  PayloadData `json:"data"`
}

// PayloadData describes the transaction at the moment of the transition.
type PayloadData struct {
	OrderID       string    `json:"orderId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Method        string    `json:"method"`
	CustomerEmail string    `json:"customerEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}

type task struct {
	merchantID uint
	event      string
	data       PayloadData
}

// DispatcherConfig tunes the worker pool.
type DispatcherConfig struct {
	Workers    int
	QueueSize  int
	Timeout    time.Duration
	MaxRetries int
}

func (c *DispatcherConfig) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
}

// Dispatcher fans transaction events out to subscribed registrations from a
// bounded worker pool. Enqueue never blocks; when the queue is full the task
// is dropped and logged.
type Dispatcher struct {
	repo   repositories.WebhookRepository
	client *http.Client
	cfg    DispatcherConfig
	rec    metrics.Recorder
	tasks  chan task
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher and starts its workers.
func NewDispatcher(repo repositories.WebhookRepository, cfg DispatcherConfig, rec metrics.Recorder) *Dispatcher {
	cfg.applyDefaults()
	d := &Dispatcher{
		repo:   repo,
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		rec:    rec,
		tasks:  make(chan task, cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue schedules delivery of event for the merchant's registrations.
// Never blocks and never returns an error to the caller.
func (d *Dispatcher) Enqueue(merchantID uint, event string, tx models.Transaction) {
	t := task{
		merchantID: merchantID,
		event:      event,
		data: PayloadData{
			OrderID:       tx.OrderID,
			Amount:        tx.Amount,
			Currency:      tx.Currency,
			Status:        tx.Status,
			Method:        tx.Method,
			CustomerEmail: tx.CustomerEmail,
			CreatedAt:     tx.CreatedAt,
		},
	}
	// The read lock keeps Stop from closing the channel between the closed
	// check and the send.
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("webhook dispatcher stopped, dropping %s for merchant %d", event, merchantID)
		return
	}
	select {
	case d.tasks <- t:
	default:
		d.rec.WebhookDropped()
		log.Printf("webhook queue full, dropping %s for merchant %d", event, merchantID)
	}
}

// Stop drains the queue and waits for in-flight deliveries, up to ctx.
// Enqueue calls arriving after Stop are dropped.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.tasks)
	}
	d.mu.Unlock()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("webhook dispatcher stopped with deliveries still in flight")
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.tasks {
		d.fanOut(t)
	}
}

func (d *Dispatcher) fanOut(t task) {
	hooks, err := d.repo.FindSubscribed(t.merchantID, t.event)
	if err != nil {
		log.Printf("webhook lookup failed for merchant %d: %v", t.merchantID, err)
		return
	}
	payload := Payload{Event: t.event, Data: t.data}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("webhook payload marshal failed: %v", err)
		return
	}
	for _, hook := range hooks {
		d.deliver(hook, t.event, body)
	}
}

func (d *Dispatcher) deliver(hook models.Webhook, event string, body []byte) {
	signature := Sign(hook.Secret, body)
	var lastErr error
	for attempt := 0; attempt <= d.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
		lastErr = d.post(hook.URL, signature, body)
		if lastErr == nil {
			d.rec.WebhookDelivery(event, "delivered")
			return
		}
	}
	d.rec.WebhookDelivery(event, "failed")
	log.Printf("failed to deliver webhook to %s: %v", hook.URL, lastErr)
}

func (d *Dispatcher) post(url, signature string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", signature)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &deliveryError{status: resp.StatusCode}
	}
	return nil
}

type deliveryError struct {
	status int
}

func (e *deliveryError) Error() string {
	return http.StatusText(e.status)
}

// Sign computes the hex HMAC-SHA256 of body with the registration secret.
// Receivers are not required to verify it.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
