package catalog

// Product is a sellable catalog entry. Price is in the smallest currency
// unit and never changes after creation; Stock is mutated only through
// DecrementStock/IncrementStock.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description,omitempty"`
	Stock       int    `json:"stock"`
}
