package services

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second {
		t.Fatal("expected different hashes for the same password")
	}
	if strings.Contains(first, "secret123") {
		t.Fatal("hash must not contain the plaintext")
	}

	cost, err := bcrypt.Cost([]byte(first))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != PasswordCost {
		t.Errorf("expected cost %d, got %d", PasswordCost, cost)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := VerifyPassword("secret123", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("mismatch must not be an error: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("secret123", "not-a-bcrypt-hash")
	if err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if ok {
		t.Fatal("malformed hash must never verify")
	}
}
