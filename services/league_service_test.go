package services

import (
	"errors"
	"testing"
)

func TestInviteTokenRoundTrip(t *testing.T) {
	s := &leagueService{jwtSecret: []byte("test-secret")}

	token, err := s.newInviteToken(12)
	if err != nil {
		t.Fatalf("newInviteToken: %v", err)
	}
	if err := s.verifyInviteToken(token, 12); err != nil {
		t.Errorf("verifyInviteToken: %v", err)
	}
}

func TestInviteTokenRejectsWrongLeague(t *testing.T) {
	s := &leagueService{jwtSecret: []byte("test-secret")}

	token, err := s.newInviteToken(12)
	if err != nil {
		t.Fatalf("newInviteToken: %v", err)
	}
	if err := s.verifyInviteToken(token, 13); !errors.Is(err, ErrInviteInvalid) {
		t.Errorf("error = %v, want ErrInviteInvalid", err)
	}
}

func TestInviteTokenRejectsGarbage(t *testing.T) {
	s := &leagueService{jwtSecret: []byte("test-secret")}

	for _, token := range []string{"", "not-a-token", "aaaa.bbbb.cccc"} {
		if err := s.verifyInviteToken(token, 12); !errors.Is(err, ErrInviteInvalid) {
			t.Errorf("verifyInviteToken(%q) = %v, want ErrInviteInvalid", token, err)
		}
	}
}

func TestInviteTokenRejectsForeignSecret(t *testing.T) {
	issuer := &leagueService{jwtSecret: []byte("issuer-secret")}
	verifier := &leagueService{jwtSecret: []byte("other-secret")}

	token, err := issuer.newInviteToken(12)
	if err != nil {
		t.Fatalf("newInviteToken: %v", err)
	}
	if err := verifier.verifyInviteToken(token, 12); !errors.Is(err, ErrInviteInvalid) {
		t.Errorf("error = %v, want ErrInviteInvalid", err)
	}
}
