package model

type ErrorResponse struct {
	Error string `json:"detail"`
}

type PiecesResponse struct {
	Pieces map[string]PieceMetadata `json:"pieces"`
}
