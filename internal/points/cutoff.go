package points

// Outcome is the result of evaluating a page against the cutoff.
// Stop false means the whole page passes unmodified and Kept is the page itself.
// Stop true means the boundary was reached: write Kept and fetch nothing further.
type Outcome struct {
	Stop bool
	Kept []User
}

// CutoffFilter decides how much of a page survives a cutoff and whether pagination ends.
// A nil cutoff exports everything.
type CutoffFilter interface {
	Evaluate(users []User, cutoff *uint64) Outcome
}

// SortedCutoff relies on the API returning users in descending point order and
// only inspects the last user of each page.
type SortedCutoff struct{}

// Evaluate implements CutoffFilter.
func (SortedCutoff) Evaluate(users []User, cutoff *uint64) Outcome {
	if cutoff == nil || len(users) == 0 {
		return Outcome{Kept: users}
	}
	if users[len(users)-1].Points > *cutoff {
		return Outcome{Kept: users}
	}
	return Outcome{Stop: true, Kept: above(users, *cutoff)}
}

// ScanCutoff makes no ordering assumption. It filters every page and never stops early.
type ScanCutoff struct{}

// Evaluate implements CutoffFilter.
func (ScanCutoff) Evaluate(users []User, cutoff *uint64) Outcome {
	if cutoff == nil {
		return Outcome{Kept: users}
	}
	return Outcome{Kept: above(users, *cutoff)}
}

// above returns the users with points strictly greater than cutoff, in order.
func above(users []User, cutoff uint64) []User {
	kept := make([]User, 0, len(users))
	for _, u := range users {
		if u.Points > cutoff {
			kept = append(kept, u)
		}
	}
	return kept
}
