package model

// InteractionType represents types of interactions
type InteractionType string

const (
	InteractionCall    InteractionType = "call"
	InteractionText    InteractionType = "text"
	InteractionEmail   InteractionType = "email"
	InteractionMeeting InteractionType = "meeting"
	InteractionSocial  InteractionType = "social"
	InteractionFika    InteractionType = "fika"
	InteractionNote    InteractionType = "note"
)

// InteractionTypes lists the accepted interaction types.
var InteractionTypes = []InteractionType{
	InteractionCall, InteractionText, InteractionEmail, InteractionMeeting,
	InteractionSocial, InteractionFika, InteractionNote,
}

// ValidInteractionType reports whether s names a known interaction type.
func ValidInteractionType(s string) bool {
	for _, t := range InteractionTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Interaction is an immutable record of one logged contact event. Logging
// one is what moves a contact's last-contact timestamps forward.
type Interaction struct {
	ID        string          `json:"id,omitempty"`
	ContactID string          `json:"contact_id"`
	At        Timestamp       `json:"at"`
	Type      InteractionType `json:"type"`
	Note      string          `json:"note,omitempty"`
}
