package scoring

import "tennis-live-scoring/models"

// Format is the set structure a match is played under.
type Format struct {
	BestOf   int                   `json:"best_of"`
	FinalSet models.FinalSetFormat `json:"final_set"`
}

// DefaultFormat is best of three with a regular tiebreak in every set.
func DefaultFormat() Format {
	return Format{BestOf: 3, FinalSet: models.FinalSetTiebreak}
}

// FormatOf reads the format off a match record, filling unset fields with
// the defaults.
func FormatOf(m *models.Match) (Format, error) {
	f := DefaultFormat()
	if m == nil {
		return f, nil
	}
	if m.BestOf != 0 {
		f.BestOf = m.BestOf
	}
	if m.FinalSet != "" {
		f.FinalSet = m.FinalSet
	}
	return f, f.Validate()
}

func (f Format) Validate() error {
	switch f.BestOf {
	case 1, 3, 5:
	default:
		return Validationf("best_of must be 1, 3 or 5, got %d", f.BestOf)
	}
	switch f.FinalSet {
	case models.FinalSetTiebreak, models.FinalSetAdvantage, models.FinalSetMatchTiebreak:
	default:
		return Validationf("unknown final set format %q", f.FinalSet)
	}
	return nil
}

// SetsToWin is the majority of BestOf.
func (f Format) SetsToWin() int {
	return f.BestOf/2 + 1
}

func (f Format) isDeciding(setNumber int) bool {
	return setNumber == f.BestOf
}

// TiebreakAtSixAll reports whether set setNumber is settled by a tiebreak
// game once it reaches 6-6.
func (f Format) TiebreakAtSixAll(setNumber int) bool {
	return !(f.isDeciding(setNumber) && f.FinalSet == models.FinalSetAdvantage)
}

// MatchTiebreak reports whether set setNumber is played as a single
// match tiebreak instead of a full set.
func (f Format) MatchTiebreak(setNumber int) bool {
	return f.isDeciding(setNumber) && f.FinalSet == models.FinalSetMatchTiebreak
}
