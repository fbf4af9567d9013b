package domain

// ProductRow is one SKU visible to a client, ordered by how often the client
// buys it. Consumed by the downstream item-resolution step.
type ProductRow struct {
	SKUCode string
	SKUName string
	Weight  float64
}
