package warehouse

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Warehouse represents a storage facility owned by a tenant.
type Warehouse struct {
	WarehouseID string    `json:"warehouseId"`
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Alias       string    `json:"alias"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewWarehouseID returns a fresh warehouse identifier of the form WH-XXXXXXX.
func NewWarehouseID() string {
	buf := make([]byte, 7)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("warehouse id: %v", err))
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return "WH-" + string(buf)
}
