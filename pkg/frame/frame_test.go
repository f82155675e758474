package frame

import "testing"

func TestEncodeDecodeLenRoundTrip(t *testing.T) {
	for _, n := range []uint32{0, 1, 255, 65536, 4294967295} {
		buf := EncodeLen(n)
		if len(buf) != LenPrefixSize {
			t.Fatalf("EncodeLen(%d) length = %d, want %d", n, len(buf), LenPrefixSize)
		}
		got, err := DecodeLen(buf, 0)
		if err != nil {
			t.Fatalf("DecodeLen: %v", err)
		}
		if got != n {
			t.Fatalf("DecodeLen(EncodeLen(%d)) = %d", n, got)
		}
	}
}

func TestDecodeLenAtOffset(t *testing.T) {
	buf := append([]byte{0xAA, 0xBB}, EncodeLen(12345)...)
	got, err := DecodeLen(buf, 2)
	if err != nil {
		t.Fatalf("DecodeLen: %v", err)
	}
	if got != 12345 {
		t.Fatalf("got %d, want 12345", got)
	}
}

func TestDecodeLenShortBuffer(t *testing.T) {
	cases := []struct {
		buf    []byte
		offset int
	}{
		{nil, 0},
		{[]byte{1, 2, 3}, 0},
		{[]byte{1, 2, 3, 4}, 1},
		{[]byte{1, 2, 3, 4}, -1},
	}
	for _, c := range cases {
		if _, err := DecodeLen(c.buf, c.offset); err != ErrShortBuffer {
			t.Fatalf("DecodeLen(%v, %d) = %v, want ErrShortBuffer", c.buf, c.offset, err)
		}
	}
}

func TestMaxLenCaps(t *testing.T) {
	if got := MaxLen(1024); got != 2048 {
		t.Fatalf("MaxLen(1024) = %d, want 2048", got)
	}
	if got := MaxLen(MaxFrameBytes); got != MaxFrameBytes {
		t.Fatalf("MaxLen(MaxFrameBytes) = %d, want %d", got, MaxFrameBytes)
	}
	if got := MaxLen(0); got != MaxFrameBytes {
		t.Fatalf("MaxLen(0) = %d, want MaxFrameBytes", got)
	}
}

func TestMinLen(t *testing.T) {
	if got := MinLen(12, 16); got != 28 {
		t.Fatalf("MinLen(12,16) = %d, want 28", got)
	}
	if got := MinLen(24, 16); got != 40 {
		t.Fatalf("MinLen(24,16) = %d, want 40", got)
	}
}
