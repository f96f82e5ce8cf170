package client

// mirror is the local copy of the appointment list. It is keyed by the
// owning user's id: rekeying to a different owner throws the contents away,
// so a cached list is never shown for an identity other than the one that
// produced it. confirmed reports whether the contents have been validated
// against a server response at least once.
type mirror struct {
	owner     string
	items     []Appointment
	confirmed bool
}

func newMirror() *mirror {
	return &mirror{}
}

func (m *mirror) rekey(owner string) {
	if m.owner == owner {
		return
	}
	m.owner = owner
	m.items = nil
	m.confirmed = false
}

// replace installs a confirmed server response.
func (m *mirror) replace(items []Appointment) {
	m.items = append([]Appointment(nil), items...)
	m.confirmed = true
}

func (m *mirror) add(a Appointment) {
	m.items = append(m.items, a)
}

// take removes the entry and hands it back so a failed server call can
// restore it.
func (m *mirror) take(id string) (Appointment, bool) {
	for i, a := range m.items {
		if a.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return a, true
		}
	}
	return Appointment{}, false
}

// snapshot returns a copy of the mirror, and whether it has ever been
// confirmed by the server. An unconfirmed mirror is not served as a
// fallback.
func (m *mirror) snapshot() ([]Appointment, bool) {
	if !m.confirmed {
		return nil, false
	}
	return append([]Appointment(nil), m.items...), true
}
