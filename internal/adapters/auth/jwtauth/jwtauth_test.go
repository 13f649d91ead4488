package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/ports/auth"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	in := auth.Claims{UserID: "user-1", Email: "ana@example.com", Role: auth.RoleAdmin}
	token, err := svc.Issue(in)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	out, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if out != in {
		t.Fatalf("claims mismatch: got %+v, want %+v", out, in)
	}
}

func TestIssue_RequiresUserID(t *testing.T) {
	svc := New("test-secret", time.Hour)
	if _, err := svc.Issue(auth.Claims{}); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestVerify_EmptyToken(t *testing.T) {
	svc := New("test-secret", time.Hour)
	if _, err := svc.Verify(context.Background(), "  "); err != ErrTokenEmpty {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := New("secret-a", time.Hour)
	verifier := New("secret-b", time.Hour)

	token, err := issuer.Issue(auth.Claims{UserID: "user-1", Role: auth.RoleCustomer})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := verifier.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected verify failure with wrong secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := New("test-secret", time.Hour)

	issued := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(auth.Claims{UserID: "user-1", Role: auth.RoleCustomer})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// dentro del TTL pasa
	svc.now = func() time.Time { return issued.Add(30 * time.Minute) }
	if _, err := svc.Verify(context.Background(), token); err != nil {
		t.Fatalf("Verify within TTL error: %v", err)
	}

	// pasado el TTL falla
	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := svc.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}
