package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []message
	err  error
}

func (s *recordingSender) Send(_ context.Context, phone, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, message{phone: phone, body: body})
	return s.err
}

func (s *recordingSender) messages() []message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]message(nil), s.sent...)
}

func TestDispatcher_DeliversInOrderPerPhone(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(4, 64, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for _, body := range []string{"1", "2", "3", "4", "5"} {
		if err := d.Send(context.Background(), "+212611111111", body); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	_ = d.Send(context.Background(), "+212622222222", "other")

	cancel()
	d.Wait()

	var got []string
	for _, m := range sender.messages() {
		if m.phone == "+212611111111" {
			got = append(got, m.body)
		}
	}
	if strings.Join(got, "") != "12345" {
		t.Fatalf("expected ordered delivery, got %v", got)
	}
	if len(sender.messages()) != 6 {
		t.Fatalf("expected 6 deliveries, got %d", len(sender.messages()))
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, 1, &recordingSender{}, zerolog.Nop())

	if err := d.Send(context.Background(), "+212611111111", "a"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := d.Send(context.Background(), "+212611111111", "b"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_SenderFailureDoesNotStopWorker(t *testing.T) {
	sender := &recordingSender{err: errors.New("gateway down")}
	d := NewDispatcher(1, 8, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	_ = d.Send(context.Background(), "+212611111111", "a")
	_ = d.Send(context.Background(), "+212611111111", "b")
	cancel()
	d.Wait()

	if n := len(sender.messages()); n != 2 {
		t.Fatalf("expected both messages attempted, got %d", n)
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(8, 1, &recordingSender{}, zerolog.Nop())
	a := d.shardIndex("+212611111111")
	for i := 0; i < 10; i++ {
		if d.shardIndex("+212611111111") != a {
			t.Fatalf("shard index must be deterministic")
		}
	}
	if a < 0 || a >= 8 {
		t.Fatalf("shard index out of range: %d", a)
	}
}

func TestLogNotifier_MasksPhone(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	if err := n.Send(context.Background(), "+212611111987", "code 123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "+212611111987") {
		t.Fatalf("phone number must be masked: %s", out)
	}
	if !strings.Contains(out, "987") || !strings.Contains(out, "code 123456") {
		t.Fatalf("unexpected log line: %s", out)
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaNotifier_Publishes(t *testing.T) {
	w := &fakeWriter{}
	n := newKafkaNotifier(w, zerolog.Nop())
	n.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	if err := n.Send(context.Background(), "+212611111111", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "+212611111111" {
		t.Fatalf("expected message keyed by phone, got %q", w.msgs[0].Key)
	}

	var req smsRequest
	if err := json.Unmarshal(w.msgs[0].Value, &req); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if req.To != "+212611111111" || req.Body != "hello" || req.Source != "madinti-auth" {
		t.Fatalf("unexpected payload %+v", req)
	}

	if err := n.Close(); err != nil || !w.closed {
		t.Fatalf("expected writer closed")
	}
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	n := newKafkaNotifier(&fakeWriter{err: errors.New("no leader")}, zerolog.Nop())
	if err := n.Send(context.Background(), "+212611111111", "hello"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewKafkaNotifier_RequiresConfig(t *testing.T) {
	if _, err := NewKafkaNotifier(KafkaConfig{}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error without brokers")
	}
	if _, err := NewKafkaNotifier(KafkaConfig{Brokers: []string{"localhost:9092"}}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error without topic")
	}
}
