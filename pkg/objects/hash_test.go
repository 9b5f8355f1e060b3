package objects

import "testing"

func TestHashBytesDeterminism(t *testing.T) {
	data := []byte("hello world")
	h1 := HashBytes(data)
	h2 := HashBytes(data)
	if h1 != h2 {
		t.Errorf("HashBytes not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 40 {
		t.Errorf("Hash length: got %d, want 40", len(h1))
	}
}

func TestHashBytesDifferentInput(t *testing.T) {
	h1 := HashBytes([]byte("aaa"))
	h2 := HashBytes([]byte("bbb"))
	if h1 == h2 {
		t.Error("different inputs produced the same hash")
	}
}

func TestHashObjectEnvelopeDiffersFromHashBytes(t *testing.T) {
	data := []byte("hello")
	h1 := HashObject(TypeBlob, data)
	h2 := HashBytes(data)
	if h1 == h2 {
		t.Error("HashObject should differ from HashBytes due to its envelope framing")
	}

	h3 := HashObject(TypeBlob, data)
	if h1 != h3 {
		t.Error("HashObject not deterministic")
	}

	h4 := HashObject(TypeCommit, data)
	if h1 == h4 {
		t.Error("different object types should produce different hashes for the same bytes")
	}
}

func TestHashItemsOrderMatters(t *testing.T) {
	h1 := HashItems([]byte("a"), []byte("b"))
	h2 := HashItems([]byte("b"), []byte("a"))
	if h1 == h2 {
		t.Error("HashItems should be sensitive to argument order")
	}
}
