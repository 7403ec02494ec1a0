package domain

// HistoryEntry is a recently selected search result.
type HistoryEntry struct {
	ID     int     `json:"id" yaml:"id"`
	Title  string  `json:"title" yaml:"title"`
	Year   string  `json:"year" yaml:"year"`
	Poster *string `json:"poster" yaml:"poster"`
}
