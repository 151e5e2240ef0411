package content

import "errors"

// ErrNotFound is returned when a year, module or quiz is not in the library.
var ErrNotFound = errors.New("not found in curriculum")

// FindYear returns the year with the given number.
func FindYear(cat *Catalog, number int) (*Year, bool) {
	if cat == nil {
		return nil, false
	}
	for i := range cat.Years {
		if cat.Years[i].Number == number {
			return &cat.Years[i], true
		}
	}
	return nil, false
}

// FindModule returns the module at the zero-based index within a year.
func FindModule(cat *Catalog, year, index int) (*Module, bool) {
	y, ok := FindYear(cat, year)
	if !ok || index < 0 || index >= len(y.Modules) {
		return nil, false
	}
	return &y.Modules[index], true
}

// FindQuiz returns the quiz attached to the module at (year, index).
// A module without a quiz is reported as not found; there is no fallback.
func FindQuiz(bank QuizBank, year, index int) (*QuizDefinition, bool) {
	for i := range bank {
		if bank[i].Year == year && bank[i].Module == index {
			return &bank[i], true
		}
	}
	return nil, false
}
