package content

import (
	"errors"
	"fmt"
)

// checkCatalog enforces rules the JSON schema can't express.
func checkCatalog(cat *Catalog) error {
	var errs []error
	seen := make(map[int]bool, len(cat.Years))
	for _, y := range cat.Years {
		if seen[y.Number] {
			errs = append(errs, fmt.Errorf("year %d defined more than once", y.Number))
		}
		seen[y.Number] = true
	}
	return errors.Join(errs...)
}

// checkQuizBank verifies every question has a valid answer key and that
// no two quizzes address the same module.
func checkQuizBank(bank QuizBank) error {
	var errs []error
	type addr struct{ year, module int }
	owners := make(map[addr]string, len(bank))

	for qi, quiz := range bank {
		a := addr{quiz.Year, quiz.Module}
		if prev, dup := owners[a]; dup {
			errs = append(errs, fmt.Errorf("quiz %d (%q): year %d module %d already used by %q",
				qi, quiz.Name, quiz.Year, quiz.Module, prev))
		} else {
			owners[a] = quiz.Name
		}

		for i, q := range quiz.Questions {
			keys := make(map[string]bool, len(q.Options))
			for _, o := range q.Options {
				if keys[o.Key] {
					errs = append(errs, fmt.Errorf("quiz %q question %d: duplicate option key %q", quiz.Name, i+1, o.Key))
				}
				keys[o.Key] = true
			}
			if !keys[q.Answer] {
				errs = append(errs, fmt.Errorf("quiz %q question %d: answer %q is not an option", quiz.Name, i+1, q.Answer))
			}
		}
	}
	return errors.Join(errs...)
}
