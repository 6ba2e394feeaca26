package strategy

import "errors"

// ErrInvalidPredicateForm is returned at construction time when a predicate
// expression cannot be decomposed into "candidate attribute <cmp>
// reference": either both sides reference the candidate, or neither does.
var ErrInvalidPredicateForm = errors.New("strategy: invalid predicate form")

// ErrForwardLegReference is returned at construction time when a leg's
// predicate references a leg at or after its own position in the
// definition. Only legs already matched (index < this leg's index) may be
// referenced (spec.md §4.5).
var ErrForwardLegReference = errors.New("strategy: predicate references a leg that has not been matched yet")

// ErrUnknownEnumeratorCase is a defensive error: a Right (or other closed
// enum) variant the AbsoluteRisk enumerator's switch doesn't cover.
var ErrUnknownEnumeratorCase = errors.New("strategy: unknown enumerator case")
