package kafkawrapper

import (
	"testing"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

func TestBackoffDurationBounded(t *testing.T) {
	min := 100 * time.Millisecond
	max := time.Second

	for attempt := 1; attempt <= 10; attempt++ {
		d := backoffDuration(min, max, attempt)
		if d < 0 || d > max {
			t.Errorf("attempt %d: backoff %v outside [0, %v]", attempt, d, max)
		}
	}

	// attempt below 1 is clamped, not panicking or negative
	if d := backoffDuration(min, max, 0); d < 0 || d > max {
		t.Errorf("clamped attempt: backoff %v outside [0, %v]", d, max)
	}
}

func TestWrapMessageCopiesHeaders(t *testing.T) {
	m := kafka.Message{
		Topic:     "spotdex.trades",
		Partition: 2,
		Offset:    42,
		Key:       []byte("ZRX"),
		Value:     []byte(`{"qty":5}`),
		Headers: []kafka.Header{
			{Key: "source", Value: []byte("engine")},
		},
	}

	w := wrapMessage(m)
	if w.Topic != "spotdex.trades" || w.Partition != 2 || w.Offset != 42 {
		t.Errorf("wrapped = %+v", w)
	}
	if string(w.Key) != "ZRX" || w.Headers["source"] != "engine" {
		t.Errorf("key/headers = %s %v", w.Key, w.Headers)
	}
}
