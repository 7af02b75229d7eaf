package domain

// TicketFlag is a display badge derived from upstream classification fields.
type TicketFlag string

const (
	FlagNeedsInfo TicketFlag = "NeedsInfo"
	FlagSpam      TicketFlag = "Spam"
	FlagLinked    TicketFlag = "Linked"
	FlagFlagged   TicketFlag = "Flagged"
	FlagRerouted  TicketFlag = "Rerouted"
	FlagVerified  TicketFlag = "Verified"
)

// Flags derives the ticket's badge set. The order is fixed (NeedsInfo, Spam,
// Linked, Flagged, then the reroute badge) so rendering is stable.
func (t *Ticket) Flags() []TicketFlag {
	flags := make([]TicketFlag, 0, 5)
	if !t.IsComplete {
		flags = append(flags, FlagNeedsInfo)
	}
	if t.IsSpam {
		flags = append(flags, FlagSpam)
	}
	if t.IsDuplicate {
		flags = append(flags, FlagLinked)
	}
	if t.IsFlagged {
		flags = append(flags, FlagFlagged)
	}
	if t.ReassignedBy != nil {
		switch *t.ReassignedBy {
		case ReassignedByAI:
			flags = append(flags, FlagRerouted)
		case ReassignedByHuman:
			flags = append(flags, FlagVerified)
		}
	}
	return flags
}
