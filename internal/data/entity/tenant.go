package entity

// Tenant is the isolation boundary. Every other row carries its ID, and no
// operation may read or write across tenants.
type Tenant struct {
	Base
	Name       string `db:"name"`
	Domain     string `db:"domain"`
	APIKeyID   string `db:"api_key_id"`
	APIKeyHash string `db:"api_key_hash"`
	IsActive   bool   `db:"is_active"`
}
