package ortcalc

import (
	"errors"
	"testing"
)

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name  string
		input [3]float64
		want  Result
	}{
		{
			name:  "typical scores",
			input: [3]float64{80, 90, 85},
			want:  Result{Math: 52, Reading: 108, Grammar: 51, Total: 211},
		},
		{
			name:  "perfect scores",
			input: [3]float64{100, 100, 100},
			want:  Result{Math: 65, Reading: 120, Grammar: 60, Total: 245},
		},
		{
			name:  "all zero",
			input: [3]float64{0, 0, 0},
			want:  Result{},
		},
		{
			name:  "half rounds up",
			input: [3]float64{50, 50, 25},
			want:  Result{Math: 33, Reading: 60, Grammar: 15, Total: 108},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculatePercentage(tt.input)
			if err != nil {
				t.Fatalf("CalculatePercentage(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("CalculatePercentage(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.Total != got.Math+got.Reading+got.Grammar {
				t.Errorf("total %d is not the sum of sections %d+%d+%d",
					got.Total, got.Math, got.Reading, got.Grammar)
			}
		})
	}
}

func TestCalculatePercentageRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		input [3]float64
	}{
		{"above hundred", [3]float64{101, 50, 50}},
		{"negative", [3]float64{50, -1, 50}},
		{"way above", [3]float64{50, 50, 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculatePercentage(tt.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("CalculatePercentage(%v) error = %v, want ValidationError", tt.input, err)
			}
			if vErr.Kind != OutOfRange {
				t.Errorf("validation kind = %v, want OutOfRange", vErr.Kind)
			}
		})
	}
}

func TestCalculateCorrectAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input [3]int
		want  Result
	}{
		{
			name:  "all correct gives the maximum",
			input: [3]int{60, 60, 30},
			want:  Result{Math: 65, Reading: 120, Grammar: 60, Total: 245},
		},
		{
			name:  "all zero",
			input: [3]int{0, 0, 0},
			want:  Result{},
		},
		{
			name:  "math scales by 65/60",
			input: [3]int{30, 40, 20},
			want:  Result{Math: 33, Reading: 80, Grammar: 40, Total: 153},
		},
		{
			name:  "math near maximum rounds up",
			input: [3]int{59, 0, 0},
			want:  Result{Math: 64, Total: 64},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateCorrectAnswers(tt.input)
			if err != nil {
				t.Fatalf("CalculateCorrectAnswers(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("CalculateCorrectAnswers(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCalculateCorrectAnswersRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		input [3]int
	}{
		{"math above section size", [3]int{61, 0, 0}},
		{"reading above section size", [3]int{0, 61, 0}},
		{"grammar above section size", [3]int{0, 0, 31}},
		{"negative count", [3]int{-1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateCorrectAnswers(tt.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("CalculateCorrectAnswers(%v) error = %v, want ValidationError", tt.input, err)
			}
			if vErr.Kind != OutOfRange {
				t.Errorf("validation kind = %v, want OutOfRange", vErr.Kind)
			}
		})
	}
}

func TestParseScores(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    [3]float64
		wantErr bool
	}{
		{"comma separated", "80, 90, 85", [3]float64{80, 90, 85}, false},
		{"space separated", "80 90 85", [3]float64{80, 90, 85}, false},
		{"mixed separators", "80,90 85", [3]float64{80, 90, 85}, false},
		{"percent signs tolerated", "80% 90% 85%", [3]float64{80, 90, 85}, false},
		{"fractional values", "80.5 90 85", [3]float64{80.5, 90, 85}, false},
		{"too few numbers", "80 90", [3]float64{}, true},
		{"too many numbers", "80 90 85 70", [3]float64{}, true},
		{"not numbers", "80 ninety 85", [3]float64{}, true},
		{"empty input", "", [3]float64{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScores(tt.input)
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("ParseScores(%q) error = %v, want ValidationError", tt.input, err)
				}
				if vErr.Kind != WrongCount {
					t.Errorf("validation kind = %v, want WrongCount", vErr.Kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseScores(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseScores(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCounts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    [3]int
		wantErr bool
	}{
		{"comma separated", "50, 45, 20", [3]int{50, 45, 20}, false},
		{"space separated", "50 45 20", [3]int{50, 45, 20}, false},
		{"fractional rejected", "50.5 45 20", [3]int{}, true},
		{"too few numbers", "50 45", [3]int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCounts(tt.input)
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("ParseCounts(%q) error = %v, want ValidationError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCounts(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCounts(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreviewClampsInsteadOfRejecting(t *testing.T) {
	byPercent, byCorrect := Preview([3]float64{150, -10, 85})

	wantPercent, _ := CalculatePercentage([3]float64{100, 0, 85})
	if byPercent != wantPercent {
		t.Errorf("byPercent = %+v, want %+v", byPercent, wantPercent)
	}

	wantCorrect, _ := CalculateCorrectAnswers([3]int{60, 0, 30})
	if byCorrect != wantCorrect {
		t.Errorf("byCorrect = %+v, want %+v", byCorrect, wantCorrect)
	}
}

func TestPreviewInRangePassesThrough(t *testing.T) {
	byPercent, byCorrect := Preview([3]float64{50, 40, 20})

	wantPercent, _ := CalculatePercentage([3]float64{50, 40, 20})
	if byPercent != wantPercent {
		t.Errorf("byPercent = %+v, want %+v", byPercent, wantPercent)
	}

	wantCorrect, _ := CalculateCorrectAnswers([3]int{50, 40, 20})
	if byCorrect != wantCorrect {
		t.Errorf("byCorrect = %+v, want %+v", byCorrect, wantCorrect)
	}
}
