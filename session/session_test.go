package session

import (
	"errors"
	"os"
	"testing"

	"github.com/handsomecheung/cube/qrchannel"
	"github.com/handsomecheung/cube/sizing"
)

// identityQR treats the envelope text itself as the "image": these
// transport-layer tests never touch real barcode pixels (spec §1 non-goal).
type identityQR struct{}

func (identityQR) Decode(img qrchannel.Image) (string, error) {
	s, ok := img.(string)
	if !ok {
		return "", errors.New("identityQR: not a string image")
	}
	return s, nil
}

func fitsUnder(max int) sizing.FitFunc {
	return func(text string) bool { return len(text) <= max }
}

func lcgBytes(n int, seed uint64) []byte {
	out := make([]byte, n)
	x := seed
	for i := range out {
		x = x*6364136223846793005 + 1
		out[i] = byte(x >> 56)
	}
	return out
}

func encodeAll(t *testing.T, name string, data []byte, cfg sizing.Config) []sizing.Packet {
	t.Helper()
	packets, _, err := Send(name, data, cfg, nil, fitsUnder(400))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	return packets
}

func imagesFromPackets(packets []sizing.Packet) []qrchannel.Image {
	imgs := make([]qrchannel.Image, len(packets))
	for i, p := range packets {
		imgs[i] = p.Text
	}
	return imgs
}

// S1: a tiny text payload round-trips through Send/Receive with no loss.
func TestEndToEndTinyText(t *testing.T) {
	dir := t.TempDir()
	name := "hello.txt"
	data := []byte("hello, world")

	packets := encodeAll(t, name, data, sizing.DefaultImageConfig())
	src := qrchannel.NewSliceSource(imagesFromPackets(packets)...)

	res, err := Receive(src, Config{
		QRDecoder: identityQR{},
		Output:    FileOutput{DefaultDir: dir},
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Name != name {
		t.Errorf("Name = %q, want %q", res.Name, name)
	}
	assertFileContents(t, res.Path, data)
}

// S2: incompressible binary data (LCG-derived) round-trips as well,
// exercising the deflate near-identity path for high-entropy content.
func TestEndToEndIncompressibleBinary(t *testing.T) {
	dir := t.TempDir()
	data := lcgBytes(5000, 12345)

	packets := encodeAll(t, "blob.bin", data, sizing.DefaultImageConfig())
	src := qrchannel.NewSliceSource(imagesFromPackets(packets)...)

	res, err := Receive(src, Config{
		QRDecoder: identityQR{},
		Output:    FileOutput{DefaultDir: dir},
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	assertFileContents(t, res.Path, data)
}

// S5: packets from two independent encode sessions must never mix. Feeding
// A[0], B[0], then the rest of A must still recover A's file, with B's
// lone packet rejected as belonging to a different session. A's payload
// spans several packets so the decoder is still pending when B[0] arrives,
// and the two payload lengths differ so their transfer lengths differ.
func TestEndToEndCrossSessionContaminationIsRejected(t *testing.T) {
	dir := t.TempDir()

	cfg := sizing.Config{ChunkSize: 1400, MinSize: 100, ReductionStep: 50, Redundancy: 3.0}

	a := encodeAll(t, "a.txt", lcgBytes(2000, 1), cfg)
	b := encodeAll(t, "b.txt", lcgBytes(1500, 2), cfg)

	if len(a) < 2 || len(b) < 1 {
		t.Fatalf("fixture too small: len(a)=%d len(b)=%d", len(a), len(b))
	}

	mixed := []qrchannel.Image{a[0].Text, b[0].Text}
	for _, p := range a[1:] {
		mixed = append(mixed, p.Text)
	}

	src := qrchannel.NewSliceSource(mixed...)
	res, err := Receive(src, Config{
		QRDecoder: identityQR{},
		Output:    FileOutput{DefaultDir: dir},
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Name != "a.txt" {
		t.Fatalf("recovered %q, want a.txt (session contamination)", res.Name)
	}
}

// S6: a partial stream (k-1 of the k source packets) must not falsely
// reconstruct. At redundancy 1.0 Plan still emits k+2 packets (its floor),
// so dropping the last three leaves k-1.
func TestEndToEndPartialStreamIsInsufficient(t *testing.T) {
	cfg := sizing.Config{ChunkSize: 1400, MinSize: 100, ReductionStep: 50, Redundancy: 1.0}
	packets := encodeAll(t, "partial.bin", lcgBytes(3000, 999), cfg)

	if len(packets) < 2 {
		t.Fatalf("fixture too small: %d packets", len(packets))
	}
	short := packets[:len(packets)-3]

	src := qrchannel.NewSliceSource(imagesFromPackets(short)...)
	_, err := Receive(src, Config{
		QRDecoder: identityQR{},
		Output:    FileOutput{DefaultDir: "."},
	})
	if !errors.Is(err, ErrInsufficientPackets) {
		t.Fatalf("err = %v, want ErrInsufficientPackets", err)
	}
}

// Unreadable frames are skipped rather than aborting the whole session.
func TestReceiveSkipsUnreadableFrames(t *testing.T) {
	dir := t.TempDir()
	packets := encodeAll(t, "skip.txt", []byte("payload surviving noisy frames"), sizing.DefaultImageConfig())

	// A leading frame the QR decoder cannot read, ahead of the real packets.
	imgs := append([]qrchannel.Image{[]byte("not a barcode")}, imagesFromPackets(packets)...)
	src := qrchannel.NewSliceSource(imgs...)
	src.AddFailure("trailing-noise", errors.New("blurry frame"))

	res, err := Receive(src, Config{
		QRDecoder: identityQR{},
		Output:    FileOutput{DefaultDir: dir},
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if res.Name != "skip.txt" {
		t.Fatalf("Name = %q", res.Name)
	}
}

func TestReceiveNoValidPacketsWhenSourceIsEmpty(t *testing.T) {
	src := qrchannel.NewSliceSource()
	_, err := Receive(src, Config{QRDecoder: identityQR{}, Output: FileOutput{DefaultDir: "."}})
	if !errors.Is(err, ErrNoValidPackets) {
		t.Fatalf("err = %v, want ErrNoValidPackets", err)
	}
}

// A stream consisting of every packet that mismatches the pinning packet's
// session must be reported distinctly from a plain data shortfall. A's
// payload spans several packets, so A[0] alone cannot complete the decode.
func TestReceiveAllPostPinPacketsInconsistentIsReported(t *testing.T) {
	cfg := sizing.Config{ChunkSize: 1400, MinSize: 100, ReductionStep: 50, Redundancy: 3.0}

	a := encodeAll(t, "a.txt", lcgBytes(2000, 1), cfg)
	b := encodeAll(t, "b.txt", lcgBytes(1500, 2), cfg)
	if len(a) < 1 || len(b) < 2 {
		t.Fatalf("fixture too small: len(a)=%d len(b)=%d", len(a), len(b))
	}

	mixed := []qrchannel.Image{a[0].Text}
	for _, p := range b {
		mixed = append(mixed, p.Text)
	}

	src := qrchannel.NewSliceSource(mixed...)
	_, err := Receive(src, Config{QRDecoder: identityQR{}, Output: FileOutput{DefaultDir: "."}})
	if !errors.Is(err, ErrInconsistentSession) {
		t.Fatalf("err = %v, want ErrInconsistentSession", err)
	}
}

// Testable property 7: concatenating the packet stream with itself must
// still recover exactly the original file, and PacketsSeen — the dedup set
// size — must never exceed the number of distinct packets emitted, i.e. a
// repeated delivery of the same ESI is never counted twice.
func TestEndToEndDuplicateStreamDedups(t *testing.T) {
	dir := t.TempDir()
	data := []byte("duplicate every packet in this stream and see what happens")

	packets := encodeAll(t, "dup.txt", data, sizing.DefaultImageConfig())
	doubled := append(imagesFromPackets(packets), imagesFromPackets(packets)...)

	src := qrchannel.NewSliceSource(doubled...)
	res, err := Receive(src, Config{
		QRDecoder: identityQR{},
		Output:    FileOutput{DefaultDir: dir},
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	assertFileContents(t, res.Path, data)

	if res.PacketsSeen > len(packets) {
		t.Fatalf("PacketsSeen = %d, want at most %d (distinct ESIs, not double deliveries)", res.PacketsSeen, len(packets))
	}
}

// Repeating the same undersized prefix never manufactures new information:
// the decoder must stay pending forever on duplicate ESIs alone.
func TestReceiveDuplicatesNeverSubstituteForNewPackets(t *testing.T) {
	cfg := sizing.Config{ChunkSize: 1400, MinSize: 100, ReductionStep: 50, Redundancy: 1.0}
	packets := encodeAll(t, "prefix.bin", lcgBytes(3000, 7), cfg)
	if len(packets) < 4 {
		t.Fatalf("fixture too small: %d packets", len(packets))
	}
	// At redundancy 1.0 Plan emits k+2 packets; the first k-1 are a prefix
	// the decoder cannot complete from.
	prefix := imagesFromPackets(packets[:len(packets)-3])

	var repeated []qrchannel.Image
	for i := 0; i < 5; i++ {
		repeated = append(repeated, prefix...)
	}

	src := qrchannel.NewSliceSource(repeated...)
	_, err := Receive(src, Config{QRDecoder: identityQR{}, Output: FileOutput{DefaultDir: "."}})
	if !errors.Is(err, ErrInsufficientPackets) {
		t.Fatalf("err = %v, want ErrInsufficientPackets", err)
	}
}

func assertFileContents(t *testing.T, path string, want []byte) {
	t.Helper()
	if path == "" {
		t.Fatal("empty output path")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(got) != string(want) {
		t.Fatalf("file contents mismatch: got %d bytes, want %d bytes", len(got), len(want))
	}
}
