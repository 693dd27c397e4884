package drive

// Metadata describes a partial update of a Drive resource.
// Empty fields are left untouched.
type Metadata struct {
	Name          string
	AddParents    []FileID
	RemoveParents []FileID
}

func (m Metadata) IsEmpty() bool {
	return m.Name == "" && len(m.AddParents) == 0 && len(m.RemoveParents) == 0
}
