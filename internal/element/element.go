package element

// SelectorKind classifies which attribute can be used to re-locate an
// element for test automation.
type SelectorKind string

const (
	SelectorID    SelectorKind = "id"
	SelectorClass SelectorKind = "class"
	SelectorNone  SelectorKind = "none"
)

// NoSelectorValue is the sentinel selector value for elements that carry
// neither an id nor a class attribute.
const NoSelectorValue = "no-id-or-class"

// Record is one extracted element: its tag (annotated with the input
// subtype where relevant), a human-readable label, and the selector hint.
// Records are append-only; insertion order determines output row order.
type Record struct {
	ElementType   string
	TextContent   string
	SelectorKind  SelectorKind
	SelectorValue string
}

// Locatable reports whether the record carries a usable selector hint.
// Records without one are collected but excluded from the final output.
func (r Record) Locatable() bool {
	return r.SelectorKind != SelectorNone
}
