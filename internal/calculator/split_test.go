package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		participants []string
		wantErr      bool
		validateFunc func(t *testing.T, shares map[string]float64)
	}{
		{
			name:         "three-way split",
			amount:       90.0,
			participants: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				// 90 / 3 = 30 each
				for _, id := range []string{"alice", "bob", "carol"} {
					if math.Abs(shares[id]-30.0) > 0.01 {
						t.Errorf("%s share = %v, want 30.0", id, shares[id])
					}
				}
			},
		},
		{
			name:         "indivisible amount leaves bounded residue",
			amount:       100.0,
			participants: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				// 100 / 3 = 33.33 each, residue 0.01 is not redistributed
				var sum float64
				for _, id := range []string{"alice", "bob", "carol"} {
					if math.Abs(shares[id]-33.33) > 0.01 {
						t.Errorf("%s share = %v, want 33.33", id, shares[id])
					}
					sum += shares[id]
				}
				if math.Abs(sum-100.0) > 0.01*float64(len(shares)) {
					t.Errorf("sum of shares = %v, want within 0.03 of 100", sum)
				}
			},
		},
		{
			name:         "single participant gets everything",
			amount:       42.5,
			participants: []string{"alice"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["alice"]-42.5) > 0.01 {
					t.Errorf("alice share = %v, want 42.5", shares["alice"])
				}
			},
		},
		{
			name:         "zero amount should error",
			amount:       0,
			participants: []string{"alice"},
			wantErr:      true,
		},
		{
			name:         "negative amount should error",
			amount:       -10,
			participants: []string{"alice"},
			wantErr:      true,
		},
		{
			name:         "no participants should error",
			amount:       10,
			participants: []string{},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualSplit(tt.amount, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Errorf("EqualSplit() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				var invalid *models.InvalidInputError
				if !errors.As(err, &invalid) {
					t.Errorf("EqualSplit() error = %v, want InvalidInputError", err)
				}
				return
			}
			if len(shares) != len(tt.participants) {
				t.Errorf("EqualSplit() returned %d shares, want %d", len(shares), len(tt.participants))
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestCustomSplit(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		values       map[string]float64
		wantErr      bool
		validateFunc func(t *testing.T, shares map[string]float64)
	}{
		{
			name:   "values covering the amount exactly",
			amount: 100.0,
			values: map[string]float64{"alice": 60, "bob": 30, "carol": 10},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["alice"]-60.0) > 0.01 {
					t.Errorf("alice share = %v, want 60.0", shares["alice"])
				}
				if math.Abs(shares["bob"]-30.0) > 0.01 {
					t.Errorf("bob share = %v, want 30.0", shares["bob"])
				}
				if math.Abs(shares["carol"]-10.0) > 0.01 {
					t.Errorf("carol share = %v, want 10.0", shares["carol"])
				}
			},
		},
		{
			name:   "one cent off stays within tolerance",
			amount: 100.0,
			values: map[string]float64{"alice": 50.0, "bob": 49.99},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["bob"]-49.99) > 0.001 {
					t.Errorf("bob share = %v, want 49.99", shares["bob"])
				}
			},
		},
		{
			name:    "totals beyond tolerance rejected",
			amount:  100.0,
			values:  map[string]float64{"alice": 40, "bob": 70},
			wantErr: true,
		},
		{
			name:    "undershooting totals rejected",
			amount:  100.0,
			values:  map[string]float64{"alice": 40, "bob": 40},
			wantErr: true,
		},
		{
			name:    "negative value rejected",
			amount:  100.0,
			values:  map[string]float64{"alice": 110, "bob": -10},
			wantErr: true,
		},
		{
			name:    "no values rejected",
			amount:  100.0,
			values:  map[string]float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := CustomSplit(tt.amount, tt.values)
			if (err != nil) != tt.wantErr {
				t.Errorf("CustomSplit() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestCustomSplitMismatchCarriesTotals(t *testing.T) {
	_, err := CustomSplit(100.0, map[string]float64{"alice": 40, "bob": 70})
	var mismatch *models.SplitMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("CustomSplit() error = %v, want SplitMismatchError", err)
	}
	if mismatch.Mode != models.SplitCustom {
		t.Errorf("mismatch mode = %v, want custom", mismatch.Mode)
	}
	if math.Abs(mismatch.Expected-100.0) > 0.001 {
		t.Errorf("mismatch expected = %v, want 100", mismatch.Expected)
	}
	if math.Abs(mismatch.Actual-110.0) > 0.001 {
		t.Errorf("mismatch actual = %v, want 110", mismatch.Actual)
	}
}

func TestPercentageSplit(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		percents     map[string]float64
		wantErr      bool
		validateFunc func(t *testing.T, shares map[string]float64)
	}{
		{
			name:     "fifty thirty twenty",
			amount:   200.0,
			percents: map[string]float64{"alice": 50, "bob": 30, "carol": 20},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				// 200 * 50% = 100, 200 * 30% = 60, 200 * 20% = 40
				if math.Abs(shares["alice"]-100.0) > 0.01 {
					t.Errorf("alice share = %v, want 100.0", shares["alice"])
				}
				if math.Abs(shares["bob"]-60.0) > 0.01 {
					t.Errorf("bob share = %v, want 60.0", shares["bob"])
				}
				if math.Abs(shares["carol"]-40.0) > 0.01 {
					t.Errorf("carol share = %v, want 40.0", shares["carol"])
				}
			},
		},
		{
			name:     "just inside the tolerance",
			amount:   100.0,
			percents: map[string]float64{"alice": 50.05, "bob": 49.99},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["alice"]-50.05) > 0.01 {
					t.Errorf("alice share = %v, want 50.05", shares["alice"])
				}
			},
		},
		{
			name:     "percentages not reaching 100 rejected",
			amount:   100.0,
			percents: map[string]float64{"alice": 50, "bob": 49},
			wantErr:  true,
		},
		{
			name:     "percentages above 100 rejected",
			amount:   100.0,
			percents: map[string]float64{"alice": 60, "bob": 50},
			wantErr:  true,
		},
		{
			name:     "negative percentage rejected",
			amount:   100.0,
			percents: map[string]float64{"alice": 120, "bob": -20},
			wantErr:  true,
		},
		{
			name:     "no percentages rejected",
			amount:   100.0,
			percents: map[string]float64{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := PercentageSplit(tt.amount, tt.percents)
			if (err != nil) != tt.wantErr {
				t.Errorf("PercentageSplit() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestPercentageSplitMismatchCarriesTotals(t *testing.T) {
	_, err := PercentageSplit(100.0, map[string]float64{"alice": 50, "bob": 30})
	var mismatch *models.SplitMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("PercentageSplit() error = %v, want SplitMismatchError", err)
	}
	if mismatch.Mode != models.SplitPercentage {
		t.Errorf("mismatch mode = %v, want percentage", mismatch.Mode)
	}
	if math.Abs(mismatch.Expected-100.0) > 0.001 {
		t.Errorf("mismatch expected = %v, want 100", mismatch.Expected)
	}
	if math.Abs(mismatch.Actual-80.0) > 0.001 {
		t.Errorf("mismatch actual = %v, want 80", mismatch.Actual)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.33},
		{0.125, 0.13}, // halves round away from zero
		{-0.125, -0.13},
		{0.004, 0.0},
		{10, 10},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
