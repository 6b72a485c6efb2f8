package domain

// PendingChange is the single-slot confirmation record for a methodology
// switch awaiting a sí/no answer.
type PendingChange struct {
	TargetMethodology string
}

// SessionState is everything remembered for one conversation. Sessions are
// created lazily on first reference and live for the process lifetime; the
// session identifier is an opaque caller-supplied string.
type SessionState struct {
	Proposal     *Proposal
	Requirements string
	Pending      *PendingChange
	LastArea     string
	Extras       map[string]string
}
