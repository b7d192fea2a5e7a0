package hal

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func headlessConfig(drivers ...Driver) Config {
	cfg := DefaultConfig()
	cfg.Drivers = drivers
	cfg.Hz = 1000
	return cfg
}

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	cfg := headlessConfig(DriverHeadless)
	cfg.Modes = []Mode{{}, {320, 240}}
	cfg.Ticks = 5

	var (
		steps int
		got   DisplayInfo
	)
	var logs bytes.Buffer
	err := Run(context.Background(), cfg, NewLogger(&logs), func(h HAL) (func() error, error) {
		got = h.Display().Info()
		return func() error {
			steps++
			return nil
		}, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if steps != 5 {
		t.Fatalf("steps = %d, want 5", steps)
	}
	if got.Driver != DriverHeadless || got.Width != 320 || got.Height != 240 {
		t.Fatalf("info = %+v", got)
	}
	if !strings.Contains(logs.String(), "display: headless memory 320x240 RGB565") {
		t.Fatalf("log = %q", logs.String())
	}
}

func TestRunStopsOnErrStop(t *testing.T) {
	steps := 0
	err := Run(context.Background(), headlessConfig(DriverHeadless), NewLogger(&bytes.Buffer{}), func(h HAL) (func() error, error) {
		return func() error {
			steps++
			if steps == 3 {
				return ErrStop
			}
			return nil
		}, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if steps != 3 {
		t.Fatalf("steps = %d", steps)
	}
}

func TestRunReturnsStepError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), headlessConfig(DriverHeadless), NewLogger(&bytes.Buffer{}), func(h HAL) (func() error, error) {
		return func() error { return boom }, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := Run(ctx, headlessConfig(DriverHeadless), NewLogger(&bytes.Buffer{}), func(h HAL) (func() error, error) {
		return func() error { return nil }, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunFallsBackToNextDriver(t *testing.T) {
	cfg := headlessConfig(DriverFBDev, DriverHeadless)
	cfg.FBDevices = []string{filepath.Join(t.TempDir(), "fb7")}
	cfg.Ticks = 1

	var logs bytes.Buffer
	var driver Driver
	err := Run(context.Background(), cfg, NewLogger(&logs), func(h HAL) (func() error, error) {
		driver = h.Display().Info().Driver
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if driver != DriverHeadless {
		t.Fatalf("driver = %q", driver)
	}
	if !strings.Contains(logs.String(), "trying next") {
		t.Fatalf("expected fallback log, got %q", logs.String())
	}
}

func TestRunNoDriverOpens(t *testing.T) {
	cfg := headlessConfig(DriverFBDev)
	dir := t.TempDir()
	cfg.FBDevices = []string{filepath.Join(dir, "fb7"), filepath.Join(dir, "fb8")}

	called := false
	err := Run(context.Background(), cfg, NewLogger(&bytes.Buffer{}), func(h HAL) (func() error, error) {
		called = true
		return nil, nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Fatal("app should not start without a display")
	}
	if !strings.Contains(err.Error(), "fb7") || !strings.Contains(err.Error(), "fb8") {
		t.Fatalf("error should list every attempt: %v", err)
	}
}

func TestRunAppInitErrorDoesNotFallBack(t *testing.T) {
	boom := errors.New("no image")
	calls := 0
	cfg := headlessConfig(DriverHeadless, DriverHeadless)
	err := Run(context.Background(), cfg, NewLogger(&bytes.Buffer{}), func(h HAL) (func() error, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestStdinKeys(t *testing.T) {
	q := NewKeyQueue(8)
	stdinKeys(strings.NewReader("a\x1b q\n"), q)

	want := []KeyEvent{
		{Press: true, Rune: 'a'},
		{Code: KeyEscape, Press: true},
		{Code: KeySpace, Press: true, Rune: ' '},
		{Press: true, Rune: 'q'},
		{Code: KeyEnter, Press: true},
	}
	for i, w := range want {
		select {
		case ev := <-q.Events():
			if ev != w {
				t.Fatalf("event %d = %+v, want %+v", i, ev, w)
			}
		default:
			t.Fatalf("missing event %d", i)
		}
	}
}

func TestKeyQueueDropsWhenFull(t *testing.T) {
	q := NewKeyQueue(1)
	if !q.Push(KeyEvent{Rune: 'a'}) {
		t.Fatal("first push dropped")
	}
	if q.Push(KeyEvent{Rune: 'b'}) {
		t.Fatal("second push should be dropped")
	}
}

func TestMemFramebuffer(t *testing.T) {
	fb := NewMemFramebuffer(4, 2)
	if fb.StrideBytes() != 8 || len(fb.Buffer()) != 16 {
		t.Fatalf("stride=%d len=%d", fb.StrideBytes(), len(fb.Buffer()))
	}
	fb.ClearRGB(255, 0, 0)
	if got := fb.PixelAt(3, 1); got != 0xF800 {
		t.Fatalf("PixelAt = %#04x", got)
	}
	if got := fb.PixelAt(4, 0); got != 0 {
		t.Fatalf("out of bounds = %#04x", got)
	}
	_ = fb.Present()
	if fb.Presents() != 1 {
		t.Fatalf("Presents = %d", fb.Presents())
	}
}
