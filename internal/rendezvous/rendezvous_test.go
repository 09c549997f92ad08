package rendezvous

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestCellHandsOffSingleResult(t *testing.T) {
	cell := NewCell()
	cell.Publish(Result{WriteID: 225, OK: true})

	res, err := cell.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !res.OK || res.WriteID != 225 {
		t.Fatalf("expected 225/ok, got %+v", res)
	}
}

func TestCellIgnoresLatePublishes(t *testing.T) {
	cell := NewCell()
	cell.Publish(Result{WriteID: 225, OK: true})
	cell.Publish(Result{WriteID: 999, OK: true})

	res, err := cell.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if res.WriteID != 225 {
		t.Fatalf("expected first publish to win, got %+v", res)
	}
}

func TestCellWaitHonorsContext(t *testing.T) {
	cell := NewCell()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := cell.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestCellWaitBeforePublish(t *testing.T) {
	cell := NewCell()
	go func() {
		time.Sleep(10 * time.Millisecond)
		cell.Publish(Result{WriteID: 227, OK: true})
	}()

	res, err := cell.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if res.WriteID != 227 {
		t.Fatalf("expected 227, got %+v", res)
	}
}

func TestListenParsesReport(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Result
	}{
		{"valid id", "229\n", Result{WriteID: 229, OK: true}},
		{"no channel", "0\n", Result{}},
		{"negative", "-3\n", Result{}},
		{"garbage", "banana\n", Result{}},
		{"padded", "  231 \n", Result{WriteID: 231, OK: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cell := NewCell()
			Listen(strings.NewReader(tc.input), cell)
			res, err := cell.Wait(context.Background())
			if err != nil {
				t.Fatalf("wait: %v", err)
			}
			if res != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, res)
			}
		})
	}
}

func TestListenTreatsEOFAsNoChannel(t *testing.T) {
	cell := NewCell()
	Listen(strings.NewReader(""), cell)

	res, err := cell.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if res.OK {
		t.Fatalf("expected no-channel result, got %+v", res)
	}
}

func TestListenAcceptsReportWithoutNewline(t *testing.T) {
	// A child that reports and exits may close the pipe before a newline
	// flushes; the report still counts.
	cell := NewCell()
	Listen(io.LimitReader(strings.NewReader("229"), 3), cell)

	res, err := cell.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !res.OK || res.WriteID != 229 {
		t.Fatalf("expected 229/ok, got %+v", res)
	}
}

func TestPublishWritesDecimalLine(t *testing.T) {
	var sb strings.Builder
	if err := Publish(&sb, Result{WriteID: 229, OK: true}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if sb.String() != "229\n" {
		t.Fatalf("expected %q, got %q", "229\n", sb.String())
	}

	sb.Reset()
	if err := Publish(&sb, Result{}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if sb.String() != "0\n" {
		t.Fatalf("expected %q, got %q", "0\n", sb.String())
	}
}
