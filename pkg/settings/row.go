package settings

import "encoding/xml"

// RowState tracks an in-memory row change since the last AcceptChanges.
type RowState int

const (
	RowUnchanged RowState = iota
	RowAdded
	RowModified
	RowDeleted
)

// String returns a human-readable representation of the row state.
func (s RowState) String() string {
	switch s {
	case RowUnchanged:
		return "Unchanged"
	case RowAdded:
		return "Added"
	case RowModified:
		return "Modified"
	case RowDeleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}

// Row is one panel's persisted placement.
type Row struct {
	PanelName string  `xml:"PanelName"`
	Left      float64 `xml:"Left"`
	Top       float64 `xml:"Top"`
}

// Value is a named setting stored alongside the panel rows.
type Value struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

// document is the on-disk shape of the store.
type document struct {
	XMLName xml.Name `xml:"DocumentElement"`
	Panels  []Row    `xml:"PanelSettings"`
	Values  []Value  `xml:"Settings"`
}

type entry struct {
	row   Row
	state RowState
}
