package entity

// Store is a catalog store users can filter alerts by.
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
