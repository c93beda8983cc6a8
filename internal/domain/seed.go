package domain

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var seedCatalogYAML []byte

type seedAdmin struct {
	Name     string `yaml:"name"`
	Surname  string `yaml:"surname"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type seedCatalog struct {
	Products []Product `yaml:"products"`
	Admin    seedAdmin `yaml:"admin"`
}

var loadSeed = sync.OnceValues(func() (*seedCatalog, error) {
	var catalog seedCatalog
	if err := yaml.Unmarshal(seedCatalogYAML, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode seed catalog: %w", err)
	}
	for i := range catalog.Products {
		if err := catalog.Products[i].Validate(); err != nil {
			return nil, fmt.Errorf("seed product %q: %w", catalog.Products[i].ID, err)
		}
	}
	return &catalog, nil
})

// hashing is slow, so the admin digest is computed once per process
var seedAdminUser = sync.OnceValues(func() (User, error) {
	catalog, err := loadSeed()
	if err != nil {
		return User{}, err
	}
	a := catalog.Admin
	user, err := NewUser(a.Name, a.Surname, a.Email, a.Password, RoleAdmin)
	if err != nil {
		return User{}, fmt.Errorf("seed admin: %w", err)
	}
	return *user, nil
})

// SeedProducts returns a fresh copy of the default catalog
func SeedProducts() ([]Product, error) {
	catalog, err := loadSeed()
	if err != nil {
		return nil, err
	}
	return CloneProducts(catalog.Products), nil
}

// SeedAdmin returns the built-in administrator account
func SeedAdmin() (User, error) {
	return seedAdminUser()
}

// SeedAdminEmail is the address that identifies the built-in administrator
func SeedAdminEmail() string {
	catalog, err := loadSeed()
	if err != nil {
		return ""
	}
	return NormalizeEmail(catalog.Admin.Email)
}
