package service

import (
	"errors"
	"testing"

	"github.com/zipcart/internal/config"
)

func TestValidatePasswordEmptyPolicyAllowsAnything(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept any password: %v", err)
	}
}

func TestValidatePasswordRules(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{name: "valid", password: "Passw0rd", ok: true},
		{name: "too_short", password: "Pw1", ok: false},
		{name: "no_upper", password: "passw0rd", ok: false},
		{name: "no_lower", password: "PASSW0RD", ok: false},
		{name: "no_number", password: "Password", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got: %v", err)
			}
			if !tc.ok {
				if !errors.Is(err, ErrWeakPassword) {
					t.Fatalf("expected ErrWeakPassword, got: %v", err)
				}
			}
		})
	}
}

func TestValidatePasswordSpecialRule(t *testing.T) {
	policy := config.PasswordPolicyConfig{RequireSpecial: true}
	if err := validatePassword(policy, "abc123"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected special char requirement, got: %v", err)
	}
	if err := validatePassword(policy, "abc123!"); err != nil {
		t.Fatalf("expected valid with special char: %v", err)
	}
}
