package entity

// InputSummary describes one <input> on the form, used for diagnostics.
type InputSummary struct {
	Name        string
	Type        string
	ID          string
	Value       string
	Placeholder string
	Hidden      bool
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
