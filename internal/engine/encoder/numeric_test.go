package encoder

import (
	"math"
	"testing"

	"github.com/crimson-sun/stresscheck/internal/model"
)

func TestToNumeric(t *testing.T) {
	tests := []struct {
		in   model.Value
		want float64
	}{
		// Direct numbers.
		{model.Number(5), 5},
		{model.Number(0.5), 0.5},
		{model.Number(-3), 0},
		{model.Number(math.NaN()), 0},
		{model.Number(math.Inf(1)), 0},
		{model.Bool(true), 1},
		{model.Bool(false), 0},

		// Plain numeric text.
		{model.Text("5"), 5},
		{model.Text(" 7.5 "), 7.5},
		{model.Text("6 hours"), 6},

		// Zero vocabulary.
		{model.Text(""), 0},
		{model.Text("   "), 0},
		{model.Text("none"), 0},
		{model.Text("None"), 0},
		{model.Text("zero"), 0},
		{model.Text("no"), 0},
		{model.Text("didn't"), 0},
		{model.Text("didnt"), 0},
		{model.Text("N/A"), 0},

		// Saturation.
		{model.Text("all day"), 10},
		{model.Text("pretty much all day long"), 10},
		{model.Text("Most of the day"), 10},

		// Ranges average.
		{model.Text("2-3 hours"), 2.5},
		{model.Text("2 - 4"), 3},
		{model.Text("6~8"), 7},
		{model.Text("1/2"), 1.5},
		{model.Text("2 to 3 hours"), 2.5},

		// Multiple activities sum.
		{model.Text("1 hour calling, 1 hour chatting"), 2},
		{model.Text("2 hours gym and 1.5 hours reading"), 3.5},

		// No numbers.
		{model.Text("a bit"), 0},
		{model.Absent(), 0},
		{model.List("3"), 0},
	}

	for _, tt := range tests {
		if got := ToNumeric(tt.in); got != tt.want {
			t.Errorf("ToNumeric(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToNumericZeroWordOnlyMatchesWholeAnswer(t *testing.T) {
	// "no" appears inside "notes" and "noon"; the numbers must still count.
	if got := ToNumeric(model.Text("3 hours of notes")); got != 3 {
		t.Errorf("ToNumeric(notes) = %v, want 3", got)
	}
	if got := ToNumeric(model.Text("until noon, 4")); got != 4 {
		t.Errorf("ToNumeric(noon) = %v, want 4", got)
	}
}

func TestToNumericNeverNegative(t *testing.T) {
	inputs := []model.Value{
		model.Number(-0.0001),
		model.Number(math.Inf(-1)),
		model.Text("-5"),
		model.Text("minus 2"),
	}
	for _, in := range inputs {
		if got := ToNumeric(in); got < 0 {
			t.Errorf("ToNumeric(%v) = %v, want >= 0", in, got)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		in   model.Value
		want int
	}{
		{model.Number(8), 8},
		{model.Number(3.9), 3},
		{model.Text("2-3"), 2},
		{model.Text("ten"), 0},
		{model.Number(1e300), math.MaxInt32},
		{model.Absent(), 0},
	}
	for _, tt := range tests {
		if got := Count(tt.in); got != tt.want {
			t.Errorf("Count(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCommuteTime(t *testing.T) {
	tests := []struct {
		in   model.Value
		want int
	}{
		{model.Number(15), 15},
		{model.Number(45), 45},
		{model.Number(60), 60},
		{model.Number(150), 150},
		{model.Text("15"), 15},
		{model.Text(" 60 "), 60},
		{model.Text("150"), 150},
		{model.Number(60.7), 60},
		{model.Number(30), DefaultCommute},
		{model.Number(-15), DefaultCommute},
		{model.Number(math.NaN()), DefaultCommute},
		{model.Number(math.Inf(1)), DefaultCommute},
		{model.Text("60.0"), DefaultCommute},
		{model.Text("< 30 minutes"), DefaultCommute},
		{model.Text("an hour"), DefaultCommute},
		{model.Bool(true), DefaultCommute},
		{model.Absent(), DefaultCommute},
	}
	for _, tt := range tests {
		if got := CommuteTime(tt.in); got != tt.want {
			t.Errorf("CommuteTime(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
