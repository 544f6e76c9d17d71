package watch

// Evaluate applies the availability transition rules for one watch and
// returns the decision plus the state the runner should persist. It is
// side-effect free: the runner owns applying the decision (delivery,
// auto-disable, recording LastNotifiedValue after a successful alert).
//
// Notify fires on a transition from not-available (LastValue nil or
// <=0) to available (newValue > 0), and only when newValue differs
// from LastNotifiedValue so an unchanged already-available reading
// never re-alerts. A watch whose transition was observed but never
// successfully delivered (LastNotifiedValue still nil while LastValue
// is positive) stays eligible, so the next run retries at the same or
// updated value.
func Evaluate(cfg Config, st State, newValue int) (Decision, State) {
	next := st
	v := newValue
	next.LastValue = &v
	next.LastError = ""

	if !cfg.Enabled {
		return NoAction, next
	}
	if newValue <= 0 {
		return NoAction, next
	}
	if st.LastNotifiedValue != nil && *st.LastNotifiedValue == newValue {
		return NoAction, next
	}

	prevAvailable := st.LastValue != nil && *st.LastValue > 0
	if prevAvailable && st.LastNotifiedValue != nil {
		return NoAction, next
	}
	return Notify, next
}
