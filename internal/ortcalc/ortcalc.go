package ortcalc

import (
	"math"
	"strconv"
	"strings"
)

// Input bounds. Percentages are per-section [0,100]; correct-answer counts are
// bounded by the section sizes of the test.
const (
	MaxPercent        = 100
	MaxMathCorrect    = 60
	MaxReadingCorrect = 60
	MaxGrammarCorrect = 30

	// MaxScore is the highest attainable total: 65 + 120 + 60.
	MaxScore = 245
)

// Result holds the per-section scores and their total. Total is always the
// sum of the three sections.
type Result struct {
	Math    int
	Reading int
	Grammar int
	Total   int
}

// ValidationKind discriminates why input was rejected, so the caller can pick
// the right re-prompt.
type ValidationKind int

const (
	// WrongCount: the input did not contain exactly three numbers.
	WrongCount ValidationKind = iota
	// OutOfRange: a value fell outside its section bound.
	OutOfRange
)

// ValidationError reports user input rejected by the calculator.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case OutOfRange:
		return "ortcalc: value out of range"
	default:
		return "ortcalc: expected exactly three numbers"
	}
}

func splitNumbers(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "%"); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParseScores splits text on commas and whitespace and parses exactly three
// numbers. Stray percent signs are tolerated ("80%, 90, 85").
func ParseScores(text string) ([3]float64, error) {
	var values [3]float64
	fields := splitNumbers(text)
	if len(fields) != 3 {
		return values, &ValidationError{Kind: WrongCount}
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return values, &ValidationError{Kind: WrongCount}
		}
		values[i] = v
	}
	return values, nil
}

// ParseCounts is like ParseScores but requires whole numbers, since
// correct-answer counts cannot be fractional.
func ParseCounts(text string) ([3]int, error) {
	var values [3]int
	fields := splitNumbers(text)
	if len(fields) != 3 {
		return values, &ValidationError{Kind: WrongCount}
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return values, &ValidationError{Kind: WrongCount}
		}
		values[i] = v
	}
	return values, nil
}

// roundHalfUp rounds to the nearest integer with .5 going up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CalculatePercentage converts per-section percentages into scores.
// Values outside [0,100] are rejected, not clamped.
func CalculatePercentage(p [3]float64) (Result, error) {
	for _, v := range p {
		if v < 0 || v > MaxPercent {
			return Result{}, &ValidationError{Kind: OutOfRange}
		}
	}
	r := Result{
		Math:    roundHalfUp(p[0] * 0.65),
		Reading: roundHalfUp(p[1] * 1.2),
		Grammar: roundHalfUp(p[2] * 0.6),
	}
	r.Total = r.Math + r.Reading + r.Grammar
	return r, nil
}

// CalculateCorrectAnswers converts per-section correct-answer counts into
// scores. Counts above the section maxima (60/60/30) are rejected.
func CalculateCorrectAnswers(c [3]int) (Result, error) {
	maxima := [3]int{MaxMathCorrect, MaxReadingCorrect, MaxGrammarCorrect}
	for i, v := range c {
		if v < 0 || v > maxima[i] {
			return Result{}, &ValidationError{Kind: OutOfRange}
		}
	}
	r := Result{
		Math:    roundHalfUp(float64(c[0]) * 65.0 / 60.0),
		Reading: c[1] * 2,
		Grammar: c[2] * 2,
	}
	r.Total = r.Math + r.Reading + r.Grammar
	return r, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Preview computes both formulas for the inline-query path. Unlike the
// conversational path, values are clamped into range instead of rejected:
// a preview should always show something.
func Preview(values [3]float64) (byPercent, byCorrect Result) {
	var p [3]float64
	for i, v := range values {
		p[i] = clamp(v, 0, MaxPercent)
	}
	byPercent, _ = CalculatePercentage(p)

	c := [3]int{
		int(clamp(values[0], 0, MaxMathCorrect)),
		int(clamp(values[1], 0, MaxReadingCorrect)),
		int(clamp(values[2], 0, MaxGrammarCorrect)),
	}
	byCorrect, _ = CalculateCorrectAnswers(c)
	return byPercent, byCorrect
}
