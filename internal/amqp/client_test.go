package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{-1, 1 * time.Second},
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{64, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"closed connection", errors.New("connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"amqp closed", fmt.Errorf("publish: %w", amqp091.ErrClosed), true},
		{"other error", errors.New("some other error"), false},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isConnectionError(tt.err)
			if result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

type fakeDelivery struct {
	data    []byte
	acked   bool
	nacked  bool
	requeue bool
}

func (d *fakeDelivery) Ack(bool) error { d.acked = true; return nil }

func (d *fakeDelivery) Nack(_, requeue bool) error {
	d.nacked = true
	d.requeue = requeue
	return nil
}

func (d *fakeDelivery) body() []byte { return d.data }

func TestSettle(t *testing.T) {
	valid, err := NewExportRequestMessage("p1", "month", 2025, 3).ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAck     bool
		wantRequeue bool
	}{
		{"success acks", valid, nil, true, false},
		{"transient error requeues", valid, errors.New("sheets unavailable"), false, true},
		{"permanent error rejects", valid, Permanent(errors.New("bad period")), false, false},
		{"malformed body rejects", []byte("{"), nil, false, false},
		{"invalid message rejects", []byte(`{"profileId":"","period":"month","month":3}`), nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDelivery{data: tt.body}
			settle(context.Background(), d, func(context.Context, *ExportRequestMessage) error {
				return tt.handlerErr
			})
			if d.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", d.acked, tt.wantAck)
			}
			if !tt.wantAck && (!d.nacked || d.requeue != tt.wantRequeue) {
				t.Errorf("nacked = %v requeue = %v, want requeue %v", d.nacked, d.requeue, tt.wantRequeue)
			}
		})
	}
}

func TestExportRequestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     ExportRequestMessage
		wantErr bool
	}{
		{"month", ExportRequestMessage{ProfileID: "p", Period: "month", Year: 2025, Month: 3}, false},
		{"missing profile", ExportRequestMessage{Period: "month", Month: 3}, true},
		{"missing period", ExportRequestMessage{ProfileID: "p", Month: 3}, true},
		{"bad month", ExportRequestMessage{ProfileID: "p", Period: "year", Month: 0}, true},
		{"custom", ExportRequestMessage{ProfileID: "p", Period: "custom", Start: "2025-03-01", End: "2025-03-31"}, false},
		{"custom without end", ExportRequestMessage{ProfileID: "p", Period: "custom", Start: "2025-03-01"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.msg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPermanent(t *testing.T) {
	base := errors.New("unknown period")
	err := Permanent(base)
	if !errors.Is(err, ErrPermanent) || !errors.Is(err, base) {
		t.Fatalf("Permanent() should wrap both errors: %v", err)
	}
}

func TestClient_ClosedChannel(t *testing.T) {
	c := &Client{exchangeName: "x", queueName: "q"}
	if err := c.HealthCheck(context.Background()); err == nil {
		t.Error("expected health check failure without connection")
	}
	if err := c.ConsumeExportRequests(context.Background(), nil); err == nil {
		t.Error("expected error without channel")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unopened client: %v", err)
	}
}
