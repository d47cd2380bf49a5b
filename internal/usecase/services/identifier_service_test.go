package services

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"

	"github.com/atlasbank/core-banking/internal/domain"
)

func neverTaken(context.Context, string) (bool, error) { return false, nil }

func TestIdentifierGeneratorFormats(t *testing.T) {
	g := NewIdentifierGenerator(rand.NewSource(42))
	ctx := context.Background()

	accountNumber, err := g.AccountNumber(ctx, neverTaken)
	if err != nil {
		t.Fatalf("account number: %v", err)
	}
	if !regexp.MustCompile(`^[1-9]\d{7}$`).MatchString(accountNumber) {
		t.Fatalf("expected 8-digit account number without leading zero, got %q", accountNumber)
	}

	cardNumber, err := g.CardNumber(ctx, neverTaken)
	if err != nil {
		t.Fatalf("card number: %v", err)
	}
	if !regexp.MustCompile(`^[1-9]\d{15}$`).MatchString(cardNumber) {
		t.Fatalf("expected 16-digit card number without leading zero, got %q", cardNumber)
	}

	if cvv := g.SecurityCode(); !regexp.MustCompile(`^\d{3}$`).MatchString(cvv) {
		t.Fatalf("expected 3-digit security code, got %q", cvv)
	}
	if pin := g.PIN(); !regexp.MustCompile(`^\d{4}$`).MatchString(pin) {
		t.Fatalf("expected 4-digit pin, got %q", pin)
	}
}

func TestIdentifierGeneratorRedrawsOnCollision(t *testing.T) {
	g := NewIdentifierGenerator(rand.NewSource(7))

	probes := 0
	exists := func(context.Context, string) (bool, error) {
		probes++
		return probes == 1, nil
	}

	accountNumber, err := g.AccountNumber(context.Background(), exists)
	if err != nil {
		t.Fatalf("account number: %v", err)
	}
	if probes != 2 {
		t.Fatalf("expected a redraw after one collision, got %d probes", probes)
	}
	if accountNumber == "" {
		t.Fatal("expected a candidate after redraw")
	}
}

func TestIdentifierGeneratorGivesUpWhenSpaceExhausted(t *testing.T) {
	g := NewIdentifierGenerator(rand.NewSource(7))

	alwaysTaken := func(context.Context, string) (bool, error) { return true, nil }

	_, err := g.CardNumber(context.Background(), alwaysTaken)
	if !errors.Is(err, domain.ErrIdentifierExhausted) {
		t.Fatalf("expected identifier exhaustion, got %v", err)
	}
}

func TestIdentifierGeneratorPropagatesProbeError(t *testing.T) {
	g := NewIdentifierGenerator(rand.NewSource(7))

	probeErr := errors.New("probe failed")
	failing := func(context.Context, string) (bool, error) { return false, probeErr }

	_, err := g.AccountNumber(context.Background(), failing)
	if !errors.Is(err, probeErr) {
		t.Fatalf("expected probe error to propagate, got %v", err)
	}
}
