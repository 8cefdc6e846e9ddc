// Package options holds option-validation helpers shared by the public
// packages.
package options

import "errors"

// ValidateSingleInputSource checks that exactly one of the given source
// flags is set. noneMsg and multipleMsg supply the error text for the
// zero-source and many-source cases, so each caller keeps its own wording.
func ValidateSingleInputSource(noneMsg, multipleMsg string, set ...bool) error {
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New(noneMsg)
	case n > 1:
		return errors.New(multipleMsg)
	}
	return nil
}
