package models

// Book is a stocked item that payments may reference. Category "library"
// marks titles that are borrowed rather than sold.
type Book struct {
	BaseModel
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Language string  `json:"language"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Cover    string  `json:"cover"`
}
