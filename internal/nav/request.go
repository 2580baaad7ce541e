package nav

import tea "github.com/charmbracelet/bubbletea"

// RequestKind selects the navigation operation a component asks for.
type RequestKind int

const (
	RequestAdvance RequestKind = iota
	RequestRetreat
	RequestGoTo
)

// RequestMsg asks the shell to change section. Components never touch the
// navigator directly; the shell applies the request on its next Update.
type RequestMsg struct {
	Kind  RequestKind
	Index int
}

// AdvanceCmd requests the next section.
func AdvanceCmd() tea.Msg { return RequestMsg{Kind: RequestAdvance} }

// RetreatCmd requests the previous section.
func RetreatCmd() tea.Msg { return RequestMsg{Kind: RequestRetreat} }

// GoToCmd requests a jump to section i.
func GoToCmd(i int) tea.Cmd {
	return func() tea.Msg { return RequestMsg{Kind: RequestGoTo, Index: i} }
}

// Apply runs the request against n.
func (r RequestMsg) Apply(n *Navigator) (Transition, error) {
	switch r.Kind {
	case RequestRetreat:
		return n.Retreat(), nil
	case RequestGoTo:
		return n.GoTo(r.Index)
	default:
		return n.Advance(), nil
	}
}
