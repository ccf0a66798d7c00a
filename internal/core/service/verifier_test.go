package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier_RoundTrip(t *testing.T) {
	v := NewBcryptVerifier(bcrypt.MinCost)

	hash, err := v.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored unhashed")
	}
	if !v.Verify(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if v.Verify(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestBcryptVerifier_CostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default rather than
	// erroring at hash time.
	v := NewBcryptVerifier(99)
	hash, err := v.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !v.Verify(hash, "s3cret-pass") {
		t.Fatal("round trip failed")
	}
}
