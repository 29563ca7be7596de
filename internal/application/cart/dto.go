package cart

// AddResult reports a committed addition.
type AddResult struct {
	CartCount int `json:"cartCount"`
}
