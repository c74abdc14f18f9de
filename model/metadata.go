package model

type PieceMetadata struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Year     uint   `json:"year,omitempty"`
}
