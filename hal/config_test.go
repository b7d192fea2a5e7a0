package hal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tinygo.org/x/drivers"
)

func TestParseDrivers(t *testing.T) {
	got, err := ParseDrivers(" fbdev, SPI ,,headless")
	if err != nil {
		t.Fatalf("ParseDrivers: %v", err)
	}
	want := []Driver{DriverFBDev, DriverSPI, DriverHeadless}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if _, err := ParseDrivers("x11"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if _, err := ParseDrivers(" , "); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestParseModes(t *testing.T) {
	got, err := ParseModes("auto, 480x320,320X240")
	if err != nil {
		t.Fatalf("ParseModes: %v", err)
	}
	want := []Mode{{}, {480, 320}, {320, 240}}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	for _, bad := range []string{"480", "ax320", "480x-1", "0x0"} {
		if _, err := ParseMode(bad); err == nil {
			t.Fatalf("ParseMode(%q): expected error", bad)
		}
	}
	if s := (Mode{}).String(); s != "auto" {
		t.Fatalf("auto String = %q", s)
	}
}

func TestParseRotation(t *testing.T) {
	for in, want := range map[string]drivers.Rotation{"": drivers.Rotation0, "90": drivers.Rotation90, "180": drivers.Rotation180, "270": drivers.Rotation270} {
		got, err := ParseRotation(in)
		if err != nil || got != want {
			t.Fatalf("ParseRotation(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseRotation("45"); err == nil {
		t.Fatal("expected error")
	}
}

func writeSysfs(t *testing.T, root, dev string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, dev)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, v := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(v), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReadFBInfo(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, "fb1", map[string]string{
		"virtual_size":   "480,320\n",
		"bits_per_pixel": "16\n",
		"stride":         "1024\n",
	})
	info, err := readFBInfo(root, "/dev/fb1")
	if err != nil {
		t.Fatalf("readFBInfo: %v", err)
	}
	if info != (fbInfo{Width: 480, Height: 320, BitsPerPixel: 16, Stride: 1024}) {
		t.Fatalf("info = %+v", info)
	}

	writeSysfs(t, root, "fb0", map[string]string{
		"virtual_size":   "1920,1080",
		"bits_per_pixel": "32",
	})
	info, err = readFBInfo(root, "/dev/fb0")
	if err != nil {
		t.Fatalf("readFBInfo: %v", err)
	}
	if info.Stride != 1920*4 {
		t.Fatalf("derived stride = %d", info.Stride)
	}

	if _, err := readFBInfo(root, "/dev/fb9"); err == nil {
		t.Fatal("expected error for missing device")
	}
	writeSysfs(t, root, "fb2", map[string]string{"virtual_size": "480x320", "bits_per_pixel": "16"})
	if _, err := readFBInfo(root, "/dev/fb2"); err == nil {
		t.Fatal("expected error for malformed virtual_size")
	}
}

func TestReadFBInfoPrefersVisibleMode(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, "fb0", map[string]string{
		"virtual_size":   "480,640\n",
		"bits_per_pixel": "16\n",
		"modes":          "U:480x320p-0\n",
	})
	info, err := readFBInfo(root, "/dev/fb0")
	if err != nil {
		t.Fatalf("readFBInfo: %v", err)
	}
	if info != (fbInfo{Width: 480, Height: 320, BitsPerPixel: 16, Stride: 960}) {
		t.Fatalf("info = %+v", info)
	}

	writeSysfs(t, root, "fb1", map[string]string{
		"virtual_size":   "480,320",
		"bits_per_pixel": "16",
		"modes":          "garbage",
	})
	if info, err = readFBInfo(root, "/dev/fb1"); err != nil || info.Height != 320 {
		t.Fatalf("unparsable modes: %+v, %v", info, err)
	}
}

func TestParseVideoMode(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
		ok   bool
	}{
		{"U:480x320p-0", 480, 320, true},
		{"S:1920x1080p-60\nS:1280x720p-60", 1920, 1080, true},
		{"V:800x600i-75", 800, 600, true},
		{"640x480", 640, 480, true},
		{"", 0, 0, false},
		{"U:x320p-0", 0, 0, false},
		{"U:480xp-0", 0, 0, false},
	}
	for _, tt := range tests {
		w, h, ok := parseVideoMode(tt.in)
		if w != tt.w || h != tt.h || ok != tt.ok {
			t.Errorf("parseVideoMode(%q) = %d, %d, %v", tt.in, w, h, ok)
		}
	}
}

func TestSelectFBMode(t *testing.T) {
	native := fbInfo{Width: 480, Height: 320, BitsPerPixel: 16, Stride: 960}
	tests := []struct {
		name    string
		known   bool
		modes   []Mode
		want    Mode
		wantErr bool
	}{
		{"auto uses native", true, []Mode{{}, FallbackMode}, Mode{480, 320}, false},
		{"auto unknown falls back", false, []Mode{{}, FallbackMode}, FallbackMode, false},
		{"explicit fits", true, []Mode{{320, 240}}, Mode{320, 240}, false},
		{"explicit too big then fits", true, []Mode{{800, 480}, {480, 320}}, Mode{480, 320}, false},
		{"nothing fits", true, []Mode{{800, 480}}, Mode{}, true},
		{"only auto unknown", false, []Mode{{}}, Mode{}, true},
		{"empty", true, nil, Mode{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectFBMode(native, tt.known, tt.modes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeDevice struct {
	mem    []byte
	writes int
	failAt int
}

func (d *fakeDevice) writeAt(p []byte, off int) error {
	d.writes++
	if d.failAt > 0 && d.writes == d.failAt {
		return errors.New("short write")
	}
	copy(d.mem[off:], p)
	return nil
}

func TestCopyRowsPaddedStride(t *testing.T) {
	// 3x2 frame on a device with 8 spare bytes per line.
	buf := []byte{
		1, 1, 2, 2, 3, 3,
		4, 4, 5, 5, 6, 6,
	}
	dev := &fakeDevice{mem: bytes.Repeat([]byte{0xEE}, 14*2)}
	if err := copyRows(buf, 3, 2, 6, 14, dev.writeAt); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		1, 1, 2, 2, 3, 3, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE,
		4, 4, 5, 5, 6, 6, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE,
	}
	if !bytes.Equal(dev.mem, want) {
		t.Fatalf("device = % x", dev.mem)
	}
	if dev.writes != 2 {
		t.Fatalf("writes = %d, want one per row", dev.writes)
	}
}

func TestCopyRowsMatchingStride(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dev := &fakeDevice{mem: make([]byte, 8)}
	if err := copyRows(buf, 2, 2, 4, 4, dev.writeAt); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dev.mem, buf) || dev.writes != 1 {
		t.Fatalf("device = % x after %d writes", dev.mem, dev.writes)
	}
}

func TestCopyRowsStopsOnError(t *testing.T) {
	dev := &fakeDevice{mem: make([]byte, 40), failAt: 1}
	if err := copyRows(make([]byte, 12), 3, 2, 6, 20, dev.writeAt); err == nil {
		t.Fatal("expected error")
	}
	if dev.writes != 1 {
		t.Fatalf("writes = %d", dev.writes)
	}
}
