package core

import "encoding/json"

// DefaultStorageKey namespaces the persisted state document.
const DefaultStorageKey = "cuzdan-storage"

// State is the whole persisted document: it is loaded whole and replaced
// whole on every mutation. Empty ActiveProfileID and LastCleanupMonth mean
// "none" and are written as null.
type State struct {
	Profiles         []Profile
	Transactions     []Transaction
	ActiveProfileID  string
	LastCleanupMonth string
}

type stateJSON struct {
	Profiles         []Profile     `json:"profiles"`
	Transactions     []Transaction `json:"transactions"`
	ActiveProfileID  *string       `json:"activeProfileId"`
	LastCleanupMonth *string       `json:"lastCleanupMonth"`
}

// Clone returns a deep copy of the slices so callers can't alias store state.
func (s State) Clone() State {
	out := State{
		ActiveProfileID:  s.ActiveProfileID,
		LastCleanupMonth: s.LastCleanupMonth,
	}
	out.Profiles = append([]Profile(nil), s.Profiles...)
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	return out
}

func (s State) MarshalJSON() ([]byte, error) {
	doc := stateJSON{
		Profiles:         s.Profiles,
		Transactions:     s.Transactions,
		ActiveProfileID:  nullable(s.ActiveProfileID),
		LastCleanupMonth: nullable(s.LastCleanupMonth),
	}
	if doc.Profiles == nil {
		doc.Profiles = []Profile{}
	}
	if doc.Transactions == nil {
		doc.Transactions = []Transaction{}
	}
	return json.Marshal(doc)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var doc stateJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*s = State{
		Profiles:     doc.Profiles,
		Transactions: doc.Transactions,
	}
	if doc.ActiveProfileID != nil {
		s.ActiveProfileID = *doc.ActiveProfileID
	}
	if doc.LastCleanupMonth != nil {
		s.LastCleanupMonth = *doc.LastCleanupMonth
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
