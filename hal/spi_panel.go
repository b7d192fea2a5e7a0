package hal

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"

	"lcdshow/gfx/rgb565"
)

// ILI9486 panels: 320x480 native, landscape by default. ILI9488 needs
// 18-bit COLMOD over 4-wire SPI and is not supported.
const (
	panelNativeW = 320
	panelNativeH = 480
	panelChunk   = 4096

	madctlMY  = 0x80
	madctlMX  = 0x40
	madctlMV  = 0x20
	madctlBGR = 0x08
)

type txer interface {
	Tx(w, r []byte) error
}

type outPin interface {
	Out(l gpio.Level) error
}

// spiPanel renders into a little-endian back buffer and streams it to the
// panel (which expects big-endian RGB565) on Present.
type spiPanel struct {
	mu     sync.Mutex
	conn   txer
	dc     outPin
	rst    outPin
	bl     outPin
	closer io.Closer
	sleep  func(time.Duration)

	madctl byte
	width  int
	height int
	stride int
	buf    []byte
	tx     []byte
}

func openSPI(cfg SPIConfig, modes []Mode) (deviceFramebuffer, error) {
	if cfg.Port == "" || cfg.DC == "" {
		return nil, errors.New("port and DC pin are required")
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	dc := gpioreg.ByName(cfg.DC)
	if dc == nil {
		return nil, fmt.Errorf("unknown DC pin %q", cfg.DC)
	}
	var rst, bl outPin
	if cfg.RST != "" {
		p := gpioreg.ByName(cfg.RST)
		if p == nil {
			return nil, fmt.Errorf("unknown RST pin %q", cfg.RST)
		}
		rst = p
	}
	if cfg.BL != "" {
		p := gpioreg.ByName(cfg.BL)
		if p == nil {
			return nil, fmt.Errorf("unknown BL pin %q", cfg.BL)
		}
		bl = p
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, err
	}
	hz := cfg.Hz
	if hz <= 0 {
		hz = DefaultConfig().SPI.Hz
	}
	conn, err := port.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, err
	}

	p, err := newSPIPanel(conn, dc, rst, bl, cfg.Rotation, modes)
	if err != nil {
		port.Close()
		return nil, err
	}
	p.closer = port
	if err := p.init(); err != nil {
		port.Close()
		return nil, err
	}
	return p, nil
}

func newSPIPanel(conn txer, dc, rst, bl outPin, rot drivers.Rotation, modes []Mode) (*spiPanel, error) {
	madctl, nw, nh := panelOrientation(rot)
	info := fbInfo{Width: nw, Height: nh, BitsPerPixel: 16, Stride: nw * 2}
	m, err := selectFBMode(info, true, modes)
	if err != nil {
		return nil, err
	}
	return &spiPanel{
		conn:   conn,
		dc:     dc,
		rst:    rst,
		bl:     bl,
		sleep:  time.Sleep,
		madctl: madctl,
		width:  m.W,
		height: m.H,
		stride: m.W * 2,
		buf:    make([]byte, m.W*2*m.H),
		tx:     make([]byte, panelChunk),
	}, nil
}

// panelOrientation maps a rotation to MADCTL bits and the visible size.
func panelOrientation(rot drivers.Rotation) (madctl byte, w, h int) {
	switch rot {
	case drivers.Rotation90:
		return madctlMX | madctlBGR, panelNativeW, panelNativeH
	case drivers.Rotation180:
		return madctlMY | madctlMX | madctlMV | madctlBGR, panelNativeH, panelNativeW
	case drivers.Rotation270:
		return madctlMY | madctlBGR, panelNativeW, panelNativeH
	}
	return madctlMV | madctlBGR, panelNativeH, panelNativeW
}

func (d *spiPanel) init() error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return err
		}
		d.sleep(64 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return err
		}
		d.sleep(140 * time.Millisecond)
	}

	seq := []struct {
		cmd  byte
		data []byte
	}{
		{0xC0, []byte{0x17, 0x15}},             // PWCTRL1
		{0xC1, []byte{0x41}},                   // PWCTRL2
		{0xC5, []byte{0x00, 0x12, 0x80, 0x40}}, // VMCTRL
		{0x3A, []byte{0x55}},                   // COLMOD: 16bpp
		{0xB1, []byte{0xA0, 0x11}},             // FRMCTRL1
		{0xB6, []byte{0x02, 0x22, 0x3B}},       // DISCTRL (480 lines)
		{0x36, []byte{d.madctl}},               // MADCTL
		{0x11, nil},                            // SLPOUT
	}
	for _, s := range seq {
		if err := d.cmd(s.cmd, s.data...); err != nil {
			return err
		}
	}
	d.sleep(120 * time.Millisecond)
	if err := d.cmd(0x29); err != nil { // DISPON
		return err
	}
	if d.bl != nil {
		return d.bl.Out(gpio.High)
	}
	return nil
}

func (d *spiPanel) cmd(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("spi: cmd %#02x: %w", cmd, err)
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	if len(data) > 0 {
		if err := d.conn.Tx(data, nil); err != nil {
			return fmt.Errorf("spi: cmd %#02x data: %w", cmd, err)
		}
	}
	return nil
}

func (d *spiPanel) setWindow(x0, y0, x1, y1 uint16) error {
	if err := d.cmd(0x2A, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.cmd(0x2B, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return d.cmd(0x2C)
}

func (d *spiPanel) Width() int          { return d.width }
func (d *spiPanel) Height() int         { return d.height }
func (d *spiPanel) Format() PixelFormat { return PixelFormatRGB565 }
func (d *spiPanel) StrideBytes() int    { return d.stride }
func (d *spiPanel) Buffer() []byte      { return d.buf }

func (d *spiPanel) ClearRGB(r, g, b uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rgb565.FillBytes(d.buf, rgb565.FromRGB(r, g, b))
}

func (d *spiPanel) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.setWindow(0, 0, uint16(d.width-1), uint16(d.height-1)); err != nil {
		return err
	}

	total := len(d.buf) &^ 1
	for off := 0; off < total; {
		n := len(d.tx)
		if remain := total - off; n > remain {
			n = remain
		}
		src := d.buf[off : off+n]
		for i := 0; i+1 < n; i += 2 {
			d.tx[i] = src[i+1]
			d.tx[i+1] = src[i]
		}
		if err := d.conn.Tx(d.tx[:n], nil); err != nil {
			return fmt.Errorf("spi: pixel data: %w", err)
		}
		off += n
	}
	return nil
}

func (d *spiPanel) Close() error {
	if d.bl != nil {
		_ = d.bl.Out(gpio.Low)
	}
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}
