package api

import "github.com/kochabx/divina/cache"

// Cache tags provided by queries and invalidated by mutations.
const (
	TagUsers             cache.Tag = "Users"
	TagSedes             cache.Tag = "Sedes"
	TagRoles             cache.Tag = "Roles"
	TagMachines          cache.Tag = "Machines"
	TagCustomers         cache.Tag = "Customers"
	TagCustomerTreatment cache.Tag = "Customers-Treatment"
	TagCustomerPayment   cache.Tag = "Customers-Payment"
	TagTreatedAreas      cache.Tag = "AreasTratadas"
)

func tags(t ...cache.Tag) []cache.Tag { return t }
