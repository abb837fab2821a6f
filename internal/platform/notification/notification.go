// Package notification delivers user-directed messages with in-memory
// storage, retry, async fan-out, and Echo HTTP handlers.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Well-known recipient IDs for the clinic workflow.
const (
	UserPatient    = "1"
	UserDoctor     = "2"
	UserPharmacist = "3"
)

// User-facing message templates, in Thai as surfaced to patients and staff.
const (
	msgInvoiceIssuedPrefix = "กรุณาชำระค่าบริการ เลขที่ใบแจ้งหนี้: "

	// MsgPaymentCompleted is broadcast once an invoice is paid.
	MsgPaymentCompleted = "ผู้ป่วยชำระค่าบริการเรียบร้อยแล้ว"
)

// InvoiceIssuedMessage renders the payment reminder carrying the invoice
// reference.
func InvoiceIssuedMessage(refID string) string {
	return msgInvoiceIssuedPrefix + refID
}

// Notification represents a single outbound message to a user.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Sender is the delivery channel for notifications.
type Sender interface {
	Send(ctx context.Context, userID, message string) error
}

// LogSender delivers notifications by writing them to the structured log.
// It stands in for a push/SMS provider integration.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a LogSender writing to the given logger.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification and always succeeds.
func (s *LogSender) Send(_ context.Context, userID, message string) error {
	s.logger.Info().
		Str("user_id", userID).
		Str("message", message).
		Msg("notification sent")
	return nil
}

// SendCall records a single call to a MockSender.
type SendCall struct {
	UserID  string
	Message string
}

// MockSender is a test double for Sender.
type MockSender struct {
	mu         sync.Mutex
	calls      []SendCall
	ShouldFail bool
	FailError  string
}

// Send records the call and optionally returns an error.
func (m *MockSender) Send(_ context.Context, userID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SendCall{UserID: userID, Message: message})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded calls.
func (m *MockSender) Calls() []SendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SendCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Dispatcher orchestrates sending, storage, and retrieval of notifications.
type Dispatcher struct {
	sender        Sender
	mu            sync.RWMutex
	notifications map[string]*Notification
	inflight      sync.WaitGroup
}

// NewDispatcher constructs a Dispatcher delivering through the given sender.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{
		sender:        sender,
		notifications: make(map[string]*Notification),
	}
}

// Notify sends a message to a user, assigns an ID and timestamps, and
// persists the result in-memory.
func (d *Dispatcher) Notify(ctx context.Context, userID, message string) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	}

	sendErr := d.sender.Send(ctx, userID, message)
	if sendErr != nil {
		n.Status = "failed"
		n.Error = sendErr.Error()
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
	}

	d.mu.Lock()
	d.notifications[n.ID] = n
	d.mu.Unlock()

	return n, sendErr
}

// NotifyAsync fires the notification in a background goroutine without
// waiting for delivery. Send failures are recorded on the stored
// notification but never surfaced to the caller. Delivery order across
// multiple NotifyAsync calls is not guaranteed.
func (d *Dispatcher) NotifyAsync(userID, message string) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		_, _ = d.Notify(context.Background(), userID, message)
	}()
}

// Flush blocks until all in-flight async notifications have completed.
// Used on shutdown and in tests.
func (d *Dispatcher) Flush() {
	d.inflight.Wait()
}

// Get retrieves a notification by ID.
func (d *Dispatcher) Get(id string) (*Notification, error) {
	d.mu.RLock()
	n, ok := d.notifications[id]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("notification %q not found", id)
	}
	return n, nil
}

// ListByUser returns notifications for a given user, up to limit.
func (d *Dispatcher) ListByUser(userID string, limit int) []*Notification {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var result []*Notification
	for _, n := range d.notifications {
		if n.UserID == userID {
			result = append(result, n)
			if len(result) >= limit {
				break
			}
		}
	}
	return result
}

// Retry re-sends a failed notification. Returns an error if the notification
// is not in "failed" status.
func (d *Dispatcher) Retry(ctx context.Context, id string) error {
	d.mu.RLock()
	n, ok := d.notifications[id]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("notification %q not found", id)
	}
	if n.Status != "failed" {
		return fmt.Errorf("notification %q is not in failed status (current: %s)", id, n.Status)
	}

	sendErr := d.sender.Send(ctx, n.UserID, n.Message)

	d.mu.Lock()
	if sendErr != nil {
		n.Status = "failed"
		n.Error = sendErr.Error()
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
		n.Error = ""
	}
	d.mu.Unlock()

	return sendErr
}

// Stats returns counts of notifications grouped by status.
func (d *Dispatcher) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := make(map[string]int)
	for _, n := range d.notifications {
		stats[n.Status]++
	}
	return stats
}

// Handler exposes notification operations over HTTP via Echo.
type Handler struct {
	dispatcher *Dispatcher
}

// NewHandler creates a new Handler.
func NewHandler(d *Dispatcher) *Handler {
	return &Handler{dispatcher: d}
}

// RegisterRoutes registers all notification routes on the given Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/notifications/send", h.HandleSend)
	g.GET("/notifications/stats", h.HandleStats)
	g.GET("/notifications/:id", h.HandleGet)
	g.GET("/notifications", h.HandleList)
	g.POST("/notifications/:id/retry", h.HandleRetry)
}

// sendRequest is the JSON body for POST /notifications/send.
type sendRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// HandleSend handles POST /notifications/send.
func (h *Handler) HandleSend(c echo.Context) error {
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.UserID == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId and message are required"})
	}

	// Return the notification even on a failed send so the caller can see
	// the ID and error.
	n, _ := h.dispatcher.Notify(c.Request().Context(), req.UserID, req.Message)
	return c.JSON(http.StatusCreated, n)
}

// HandleGet handles GET /notifications/:id.
func (h *Handler) HandleGet(c echo.Context) error {
	n, err := h.dispatcher.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, n)
}

// HandleList handles GET /notifications?userId=...
func (h *Handler) HandleList(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId query parameter is required"})
	}
	return c.JSON(http.StatusOK, h.dispatcher.ListByUser(userID, 100))
}

// HandleRetry handles POST /notifications/:id/retry.
func (h *Handler) HandleRetry(c echo.Context) error {
	id := c.Param("id")
	if err := h.dispatcher.Retry(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	n, _ := h.dispatcher.Get(id)
	return c.JSON(http.StatusOK, n)
}

// HandleStats handles GET /notifications/stats.
func (h *Handler) HandleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dispatcher.Stats())
}
