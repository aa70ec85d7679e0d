package cursor

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	token, err := Encode(Cursor{Seq: 42, FilterHash: HashFilter("territory=red-gulch")})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Seq != 42 {
		t.Fatalf("expected seq 42, got %d", decoded.Seq)
	}
	if decoded.FilterHash != HashFilter("territory=red-gulch") {
		t.Fatalf("unexpected filter hash %q", decoded.FilterHash)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := Decode("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestHashFilterStability(t *testing.T) {
	if HashFilter("") != "" {
		t.Fatal("expected empty hash for empty filter")
	}
	if HashFilter("a=1") != HashFilter("a=1") {
		t.Fatal("expected stable hash")
	}
	if HashFilter("a=1") == HashFilter("a=2") {
		t.Fatal("expected distinct hashes for distinct filters")
	}
}
