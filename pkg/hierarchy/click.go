package hierarchy

// ClickBehavior decides what a click on a record does. Build one with
// [Default] or [Override]; the zero value ignores every click.
type ClickBehavior struct {
	navigate func(Key)
	override func(Record)
}

// Default navigates to the child level keyed by the clicked record's id.
func Default(navigate func(Key)) ClickBehavior {
	return ClickBehavior{navigate: navigate}
}

// Override hands the clicked record to callback instead of navigating.
func Override(callback func(Record)) ClickBehavior {
	return ClickBehavior{override: callback}
}

// IsOverride reports whether b was built with [Override].
func (b ClickBehavior) IsOverride() bool {
	return b.override != nil
}

// Target returns the key a default click on rec at current would open.
func (b ClickBehavior) Target(rec Record, current Key) (Key, bool) {
	if !rec.Navigable() || b.override != nil || b.navigate == nil {
		return Key{}, false
	}
	return current.Child(rec.ID)
}

// Dispatch handles a click on rec shown at current and reports whether
// anything was invoked. Records without an id are inert.
func (b ClickBehavior) Dispatch(rec Record, current Key) bool {
	if !rec.Navigable() {
		return false
	}
	if b.override != nil {
		b.override(rec)
		return true
	}
	next, ok := b.Target(rec, current)
	if !ok {
		return false
	}
	b.navigate(next)
	return true
}
