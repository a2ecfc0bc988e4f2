package remap

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Audit struct {
	CreatedBy string
	Revision  int
}

type Entity struct {
	ID   int64
	Name string
}

type Contact struct {
	Entity
	*Audit
	Call     string `json:"call"`
	Operator string
	Grid     string
	Band     string `remap:"-"`
	Checksum string `remap:"readonly"`
}

type ContactRow struct {
	Entity
	*Audit
	Callsign string
	Operator null.String
	Locator  *string
	Internal int
}

type Address struct {
	City    string
	Country string
}

type AddressDTO struct {
	City    string
	Country string
	Geohash string
}

type Customer struct {
	Name   string
	Home   Address
	Work   *Address
	Past   []Address
	Logged time.Time
}

type CustomerDTO struct {
	Name   string
	Home   AddressDTO
	Work   *AddressDTO
	Past   []AddressDTO
	Logged null.Time
}

// addressMapping leaves Geohash to the caller, so merges keep it.
func addressMapping(reg *Registry) *Mapping[Address, AddressDTO] {
	return NewMapping[Address, AddressDTO](reg).
		OmitInDestination(func(d *AddressDTO) any { return &d.Geohash })
}

func registryWithAddress() *Registry {
	reg := NewRegistry()
	if _, err := Use(reg, addressMapping(reg)); err != nil {
		panic(err)
	}
	return reg
}

func strPtr(s string) *string { return &s }
