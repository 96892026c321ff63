// Package modal coordinates the exclusive add, edit and summary dialogs of
// the notes view. At most one of them is open at any time.
package modal

// Kind names the active modal.
type Kind int

const (
	KindNone Kind = iota
	KindAdd
	KindEdit
	KindSummary
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindEdit:
		return "edit"
	case KindSummary:
		return "summary"
	default:
		return "none"
	}
}

// State is one of None, Add, Edit or Summary.
type State interface {
	Kind() Kind
	sealed()
}

// None means no modal is open.
type None struct{}

// Add is the new-note modal.
type Add struct{}

// Edit carries the note being edited as it was when the modal opened.
type Edit struct {
	ID      string
	Title   string
	Content string
}

// Summary shows a generated summary. It has no form.
type Summary struct {
	Text string
}

func (None) Kind() Kind    { return KindNone }
func (Add) Kind() Kind     { return KindAdd }
func (Edit) Kind() Kind    { return KindEdit }
func (Summary) Kind() Kind { return KindSummary }

func (None) sealed()    {}
func (Add) sealed()     {}
func (Edit) sealed()    {}
func (Summary) sealed() {}

// Form is the transient input of the add and edit modals.
type Form struct {
	Title   string
	Content string
}
