package encode

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"
)

func sample() []Record {
	return []Record{
		{
			Index:         3,
			Kind:          5,
			Label:         "map(transform:)",
			FilterText:    "map(transform:)",
			ModuleName:    "Swift",
			TypeName:      "[T]",
			InsertText:    "map($0)",
			TextScore:     52,
			SemanticScore: 1.5,
			EraseLen:      2,
			GroupID:       0,
			HasDiagnostic: false,
		},
		{
			Index:         17,
			Kind:          5,
			Label:         "map(keyPath:)",
			FilterText:    "map(keyPath:)",
			ModuleName:    "Swift",
			TypeName:      "[T]",
			InsertText:    "map(\\.self)",
			TextScore:     48,
			SemanticScore: 0.9,
			GroupID:       0,
			HasDiagnostic: true,
		},
		{
			Index:      100,
			Kind:       2,
			Label:      "maxValue",
			FilterText: "maxValue",
			ModuleName: "Swift",
			TypeName:   "Int",
			InsertText: "maxValue",
			GroupID:    -1,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	in := sample()
	got, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
}

func TestDeterministicBytes(t *testing.T) {
	first := Encode(sample())
	for i := 0; i < 5; i++ {
		if !bytes.Equal(first, Encode(sample())) {
			t.Fatal("identical input produced different buffers")
		}
	}
}

func TestEmpty(t *testing.T) {
	got, err := Decode(Encode(nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestPoolDeduplicates(t *testing.T) {
	// Three records share "Swift" and two share "[T]"; each distinct
	// string must appear in the buffer exactly once.
	buf := Encode(sample())
	count := 0
	for i := 0; i+5 <= len(buf); i++ {
		if string(buf[i:i+5]) == "Swift" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared module name stored %d times, want 1", count)
	}

	distinct := map[string]bool{}
	for _, r := range sample() {
		for _, s := range []string{r.Label, r.FilterText, r.ModuleName, r.TypeName, r.InsertText} {
			distinct[s] = true
		}
	}
	poolStart := headerSize + recordSize*len(sample())
	poolLen := 0
	for s := range distinct {
		poolLen += 4 + len(s)
	}
	if got := len(buf) - poolStart; got != poolLen {
		t.Errorf("pool is %d bytes, want %d for %d distinct strings", got, poolLen, len(distinct))
	}
}

func TestUngroupedFlag(t *testing.T) {
	recs, err := Decode(Encode(sample()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if recs[0].GroupID != 0 || recs[1].GroupID != 0 {
		t.Errorf("overload set lost its group: %d, %d", recs[0].GroupID, recs[1].GroupID)
	}
	if recs[2].GroupID != -1 {
		t.Errorf("ungrouped record decoded with group %d", recs[2].GroupID)
	}
}

func TestRejectsMalformed(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("nil buffer accepted")
	}
	if _, err := Decode([]byte("not a result buffer")); err == nil {
		t.Error("bad magic accepted")
	}

	buf := Encode(sample())
	truncated := buf[:headerSize+recordSize] // claims 3 records, holds 1
	if _, err := Decode(truncated); err == nil {
		t.Error("truncated record region accepted")
	}

	bad := make([]byte, len(buf))
	copy(bad, buf)
	binary.LittleEndian.PutUint32(bad[headerSize+28:], 1<<30) // label offset far outside pool
	if _, err := Decode(bad); err == nil {
		t.Error("out of range string offset accepted")
	}
}
