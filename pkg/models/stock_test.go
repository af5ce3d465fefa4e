package models

import "testing"

func TestStock_Direction(t *testing.T) {
	s := Stock{Symbol: "AAPL", Price: 101.0, PreviousPrice: 100.0}
	if s.Direction() != DirectionUp {
		t.Errorf("Expected up, got %s", s.Direction())
	}

	s.Price, s.PreviousPrice = 99.0, 100.0
	if s.Direction() != DirectionDown {
		t.Errorf("Expected down, got %s", s.Direction())
	}

	s.Price, s.PreviousPrice = 100.0, 100.0
	if s.Direction() != DirectionUnchanged {
		t.Errorf("Expected unchanged, got %s", s.Direction())
	}
}

func TestNewStock_DefaultsToUnchanged(t *testing.T) {
	s := NewStock("AAPL", "Apple Inc.", 175.0)

	if s.PreviousPrice != 175.0 {
		t.Errorf("Expected previous price to default to price, got %f", s.PreviousPrice)
	}
	if s.Direction() != DirectionUnchanged {
		t.Errorf("Fresh stock should be unchanged, got %s", s.Direction())
	}
}

func TestStock_ChangePercent(t *testing.T) {
	s := Stock{Price: 110.0, PreviousPrice: 100.0}
	if got := s.ChangePercent(); got != 0.1 {
		t.Errorf("Expected 0.1, got %f", got)
	}
}

func TestStock_ChangePercent_GuardsDivisionByZero(t *testing.T) {
	for _, prev := range []float64{0, -1.0, -100.0} {
		s := Stock{Price: 50.0, PreviousPrice: prev}
		if got := s.ChangePercent(); got != 0 {
			t.Errorf("Expected 0 for previous price %f, got %f", prev, got)
		}
	}
}

func TestStock_ApplyUpdate(t *testing.T) {
	s := NewStock("AAPL", "Apple Inc.", 175.0)
	s.ApplyUpdate(176.75)

	if s.PreviousPrice != 175.0 {
		t.Errorf("Expected previous price 175.0, got %f", s.PreviousPrice)
	}
	if s.Price != 176.75 {
		t.Errorf("Expected price 176.75, got %f", s.Price)
	}
	if s.Direction() != DirectionUp {
		t.Errorf("Expected up after raise, got %s", s.Direction())
	}
	if s.Change() != 1.75 {
		t.Errorf("Expected change 1.75, got %f", s.Change())
	}
}
