package sizing

import (
	"testing"

	"github.com/handsomecheung/cube/wire"
)

func fitsUnder(max int) FitFunc {
	return func(text string) bool { return len(text) <= max }
}

func TestPlanRetreatsToFittingSize(t *testing.T) {
	// S3: fit predicate rejects anything over 120 bytes. At chunk size 100
	// the envelope is base64 of 11+88 bytes, 132 characters, so the retreat
	// has to go below 100; MinSize 50 lets it reach a fitting size.
	cfg := Config{ChunkSize: 1400, MinSize: 50, ReductionStep: 50, Redundancy: 1.5}
	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(i)
	}

	packets, chunkSize, err := Plan(cfg, data, nil, fitsUnder(120))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if chunkSize > 120 {
		t.Errorf("chunkSize = %d, want <= 120", chunkSize)
	}
	if len(packets) == 0 {
		t.Fatal("expected at least one packet")
	}
	for _, p := range packets {
		if len(p.Text) > 120 {
			t.Errorf("packet esi=%d text length %d exceeds fit bound", p.ESI, len(p.Text))
		}
	}
}

func TestPlanFailsTooLarge(t *testing.T) {
	// S4: fit predicate rejects anything over 30 bytes; MinSize is 100, so
	// even the floor can't fit.
	cfg := Config{ChunkSize: 1400, MinSize: 100, ReductionStep: 50, Redundancy: 1.5}
	data := make([]byte, 1000)

	packets, _, err := Plan(cfg, data, nil, fitsUnder(30))
	if err != ErrTooLarge {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if packets != nil {
		t.Errorf("expected no packets on failure")
	}
}

func TestPlanPacketSizeAlwaysEven(t *testing.T) {
	cfg := DefaultImageConfig()
	data := make([]byte, 2000)

	packets, chunkSize, err := Plan(cfg, data, nil, fitsUnder(2000))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	packetSize := evenFloor(chunkSize - wire.HeaderSize)
	if packetSize < 4 {
		t.Fatalf("packetSize = %d, want >= 4", packetSize)
	}
	if packetSize%2 != 0 {
		t.Errorf("packetSize = %d, want even", packetSize)
	}
	if len(packets) == 0 {
		t.Fatal("expected packets")
	}
}

func TestPlanRespectsMinChunkCount(t *testing.T) {
	cfg := Config{ChunkSize: 1400, MinSize: 100, ReductionStep: 50, Redundancy: 1.0}
	data := make([]byte, 50000)

	packets, _, err := Plan(cfg, data, nil, fitsUnder(2000))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	packetSize := evenFloor(cfg.ChunkSize - wire.HeaderSize)
	k := ceilDiv(len(data), packetSize)
	if len(packets) < k+2 {
		t.Errorf("len(packets) = %d, want >= k+2 = %d", len(packets), k+2)
	}
}
