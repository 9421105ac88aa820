package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"
	"time"

	"github.com/1broseidon/glasspane/internal/bridge"
)

func TestForward_MapsClicksToCommands(t *testing.T) {
	b := bridge.New()
	defer b.Close()

	done := make(chan struct{})
	show := make(chan struct{})
	exit := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		forward(done, show, exit, b)
		close(finished)
	}()

	show <- struct{}{}
	exit <- struct{}{}
	show <- struct{}{}

	for _, want := range []bridge.Command{bridge.Show, bridge.Exit, bridge.Show} {
		select {
		case got := <-b.C():
			if got != want {
				t.Fatalf("got %s, want %s", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}

	close(done)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("forward did not stop")
	}
}

func TestIconPNG_Decodes(t *testing.T) {
	data, err := IconPNG()
	if err != nil {
		t.Fatalf("icon: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Fatalf("size = %v", b)
	}
}

func TestIconICO_Header(t *testing.T) {
	data, err := IconICO()
	if err != nil {
		t.Fatalf("icon: %v", err)
	}
	if len(data) < 22 {
		t.Fatalf("too short: %d", len(data))
	}
	if typ := binary.LittleEndian.Uint16(data[2:]); typ != 1 {
		t.Fatalf("type = %d, want 1 (icon)", typ)
	}
	if count := binary.LittleEndian.Uint16(data[4:]); count != 1 {
		t.Fatalf("count = %d", count)
	}
	size := binary.LittleEndian.Uint32(data[14:])
	offset := binary.LittleEndian.Uint32(data[18:])
	if int(offset)+int(size) != len(data) {
		t.Fatalf("entry covers %d+%d, file is %d", offset, size, len(data))
	}
	if !bytes.HasPrefix(data[offset:], []byte("\x89PNG")) {
		t.Fatalf("payload is not PNG")
	}
}
