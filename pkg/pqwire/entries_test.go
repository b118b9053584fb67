package pqwire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func mustStructure(t *testing.T, entry1, entry2 []byte) []byte {
	t.Helper()
	n, err := StructuredEntriesLength(len(entry1), len(entry2))
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, n)
	if err := StructureEntries(buf, entry1, entry2); err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestStructuredEntriesLength(t *testing.T) {
	n, err := StructuredEntriesLength(2, 7)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2*EntryLenSize+9 {
		t.Fatalf("length: got %d", n)
	}
	buf := mustStructure(t, []byte("pk"), []byte("ct12345"))
	if len(buf) != n {
		t.Fatalf("length %d does not match produced buffer %d", n, len(buf))
	}
}

func TestStructuredEntriesLengthOverflow(t *testing.T) {
	if _, err := StructuredEntriesLength(-1, 0); !errors.Is(err, StatusSizeOverflow) {
		t.Fatalf("negative len1: got %v", err)
	}
	if _, err := StructuredEntriesLength(math.MaxInt, 1); !errors.Is(err, StatusSizeOverflow) {
		t.Fatalf("overflow: got %v", err)
	}
	if _, err := StructuredEntriesLength(math.MaxInt-2*EntryLenSize, 1); !errors.Is(err, StatusSizeOverflow) {
		t.Fatalf("overflow by one: got %v", err)
	}
}

func TestStructureEntriesWire(t *testing.T) {
	buf := mustStructure(t, []byte{13, 12, 18, 33}, []byte{0, 0, 2, 3, 1})
	want := []byte{
		4, 0, 0, 0, 0, 0, 0, 0,
		5, 0, 0, 0, 0, 0, 0, 0,
		13, 12, 18, 33,
		0, 0, 2, 3, 1,
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("wire bytes:\n got %v\nwant %v", buf, want)
	}
}

func TestEntriesRoundTrip(t *testing.T) {
	cases := [][2][]byte{
		{[]byte("pk"), []byte("ct12345")},
		{[]byte{}, []byte{}},
		{[]byte{}, []byte{1}},
		{bytes.Repeat([]byte{0xab}, 1184), bytes.Repeat([]byte{0xcd}, 1088)},
	}
	for _, c := range cases {
		buf := mustStructure(t, c[0], c[1])
		e1, e2, err := DestructureEntries(buf)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(e1, c[0]) || !bytes.Equal(e2, c[1]) {
			t.Fatalf("roundtrip mismatch: %v %v", len(e1), len(e2))
		}
	}
}

func TestDestructureViewsShareBuffer(t *testing.T) {
	buf := mustStructure(t, []byte("pk"), []byte("ct"))
	e1, _, err := DestructureEntries(buf)
	if err != nil {
		t.Fatal(err)
	}
	buf[2*EntryLenSize] = 'X'
	if e1[0] != 'X' {
		t.Fatal("entry1 is not a view into the source buffer")
	}
}

func TestStructureEntriesNilArguments(t *testing.T) {
	dst := make([]byte, 2*EntryLenSize)
	if err := StructureEntries(nil, []byte{}, []byte{}); !errors.Is(err, StatusNilBuffer) {
		t.Fatalf("nil dst: got %v", err)
	}
	if err := StructureEntries(dst, nil, []byte{}); !errors.Is(err, StatusNilEntry1) {
		t.Fatalf("nil entry1: got %v", err)
	}
	if err := StructureEntries(dst, []byte{}, nil); !errors.Is(err, StatusNilEntry2) {
		t.Fatalf("nil entry2: got %v", err)
	}
}

func TestDestructureBoundsEnforced(t *testing.T) {
	buf := mustStructure(t, []byte{13, 12, 18, 33}, []byte{0, 0, 2, 3, 1})

	// len1 claims more than the buffer holds.
	binary.LittleEndian.PutUint64(buf[0:EntryLenSize], 255)
	e1, e2, err := DestructureEntries(buf)
	if !errors.Is(err, StatusOutOfBounds) {
		t.Fatalf("inflated len1: got %v", err)
	}
	if e1 != nil || e2 != nil {
		t.Fatal("views exposed on failure")
	}
	binary.LittleEndian.PutUint64(buf[0:EntryLenSize], 4)

	// len2 claims more than what remains after entry1.
	binary.LittleEndian.PutUint64(buf[EntryLenSize:2*EntryLenSize], 255)
	if _, _, err := DestructureEntries(buf); !errors.Is(err, StatusOutOfBounds) {
		t.Fatalf("inflated len2: got %v", err)
	}
}

func TestDestructureShortAndNilBuffers(t *testing.T) {
	if _, _, err := DestructureEntries(nil); !errors.Is(err, StatusNilBuffer) {
		t.Fatalf("nil: got %v", err)
	}
	if _, _, err := DestructureEntries([]byte{}); !errors.Is(err, StatusOutOfBounds) {
		t.Fatalf("empty: got %v", err)
	}
	if _, _, err := DestructureEntries(make([]byte, 2*EntryLenSize-1)); !errors.Is(err, StatusOutOfBounds) {
		t.Fatalf("truncated length fields: got %v", err)
	}
}

func TestDestructureLengthParse(t *testing.T) {
	buf := make([]byte, 2*EntryLenSize)
	binary.LittleEndian.PutUint64(buf[0:EntryLenSize], math.MaxUint64)
	if _, _, err := DestructureEntries(buf); !errors.Is(err, StatusLengthParse) {
		t.Fatalf("unrepresentable len1: got %v", err)
	}
	binary.LittleEndian.PutUint64(buf[0:EntryLenSize], 0)
	binary.LittleEndian.PutUint64(buf[EntryLenSize:2*EntryLenSize], math.MaxUint64)
	if _, _, err := DestructureEntries(buf); !errors.Is(err, StatusLengthParse) {
		t.Fatalf("unrepresentable len2: got %v", err)
	}
}

func TestDestructureAllowsTrailingBytes(t *testing.T) {
	buf := mustStructure(t, []byte("a"), []byte("bc"))
	buf = append(buf, 0xff, 0xff)
	e1, e2, err := DestructureEntries(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(e1) != "a" || string(e2) != "bc" {
		t.Fatalf("got %q %q", e1, e2)
	}
}
