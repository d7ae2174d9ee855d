package domain

// Puzzle is a named problem from the catalog.
type Puzzle struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Problem     Problem `json:"problem"`
	Description string  `json:"description,omitempty"`
}
