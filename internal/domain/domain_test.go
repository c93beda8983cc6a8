package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_Validate(t *testing.T) {
	valid := Product{ID: "p1", Name: "Queso", Price: 100, Stock: 1}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr error
	}{
		{"missing id", func(p *Product) { p.ID = " " }, ErrInvalidProductID},
		{"missing name", func(p *Product) { p.Name = "" }, ErrInvalidProductName},
		{"negative price", func(p *Product) { p.Price = -1 }, ErrInvalidProductPrice},
		{"negative stock", func(p *Product) { p.Stock = -3 }, ErrInvalidProductStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tt.wantErr)
		})
	}
}

func TestIsAllCategories(t *testing.T) {
	assert.True(t, IsAllCategories(""))
	assert.True(t, IsAllCategories("all"))
	assert.True(t, IsAllCategories("ALL"))
	assert.True(t, IsAllCategories("Todas"))
	assert.False(t, IsAllCategories("Quesos"))
}

func TestNewUser_HashesPassword(t *testing.T) {
	user, err := NewUser("Ana", "Rojas", " Ana@Example.com ", "secret", RoleUser)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.True(t, user.CheckPassword("secret"))
	assert.False(t, user.CheckPassword("nope"))

	session := user.Session()
	assert.Equal(t, SessionUser{Name: "Ana", Surname: "Rojas", Email: "ana@example.com", Role: RoleUser}, session)
	assert.False(t, session.IsAdmin())
}

func TestNewUser_RejectsMissingPassword(t *testing.T) {
	_, err := NewUser("Ana", "Rojas", "ana@example.com", "", RoleUser)
	assert.ErrorIs(t, err, ErrMissingPassword)
}

func TestCartEntry_Validate(t *testing.T) {
	assert.NoError(t, (&CartEntry{ProductID: "h1", Quantity: 1}).Validate())
	assert.ErrorIs(t, (&CartEntry{ProductID: "", Quantity: 1}).Validate(), ErrInvalidCartProduct)
	assert.ErrorIs(t, (&CartEntry{ProductID: "h1", Quantity: 0}).Validate(), ErrInvalidCartQuantity)
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, ClampQuantity(-5))
	assert.Equal(t, 1, ClampQuantity(0))
	assert.Equal(t, 7, ClampQuantity(7))
}

func TestSeedProducts(t *testing.T) {
	products, err := SeedProducts()
	require.NoError(t, err)
	require.Len(t, products, 9)

	assert.Equal(t, "h1", products[0].ID)
	assert.Equal(t, int64(6990), products[0].Price)
	assert.True(t, products[0].IsFeatured)

	// callers get their own copy
	products[0].Name = "changed"
	again, err := SeedProducts()
	require.NoError(t, err)
	assert.Equal(t, "Huevos de campo XL", again[0].Name)
}

func TestSeedAdmin(t *testing.T) {
	admin, err := SeedAdmin()
	require.NoError(t, err)

	assert.Equal(t, "admin@almadegranja.cl", admin.Email)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.True(t, admin.CheckPassword("admin123"))
	assert.Equal(t, admin.Email, SeedAdminEmail())
}

func TestSortProducts(t *testing.T) {
	products := []Product{
		{ID: "a", Name: "Queso", Price: 300},
		{ID: "b", Name: "Almendras", Price: 100},
		{ID: "c", Name: "Ñandú", Price: 200},
		{ID: "d", Name: "nueces", Price: 250},
	}

	SortProducts(products, SortPriceAsc)
	assert.Equal(t, []string{"b", "c", "d", "a"}, productIDs(products))

	SortProducts(products, SortPriceDesc)
	assert.Equal(t, []string{"a", "d", "c", "b"}, productIDs(products))

	SortProducts(products, SortNameAsc)
	assert.Equal(t, []string{"b", "d", "c", "a"}, productIDs(products))

	SortProducts(products, SortNameDesc)
	assert.Equal(t, []string{"a", "c", "d", "b"}, productIDs(products))
}

func TestParseSortOrder(t *testing.T) {
	order, err := ParseSortOrder("price-desc")
	require.NoError(t, err)
	assert.Equal(t, SortPriceDesc, order)

	_, err = ParseSortOrder("random")
	assert.ErrorIs(t, err, ErrInvalidSortOrder)
}

func productIDs(products []Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func featuredIDs(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestSelectFeatured(t *testing.T) {
	tests := []struct {
		name     string
		products []Product
		want     []string
	}{
		{
			name: "flagged products win",
			products: []Product{
				{ID: "a", Stock: 3},
				{ID: "b", Stock: 0, IsFeatured: true},
			},
			want: []string{"b"},
		},
		{
			name: "falls back to in-stock products",
			products: []Product{
				{ID: "a", Stock: 3},
				{ID: "b", Stock: 0},
			},
			want: []string{"a"},
		},
		{
			name: "in-stock fallback is capped at four",
			products: []Product{
				{ID: "a", Stock: 1}, {ID: "b", Stock: 1}, {ID: "c", Stock: 0},
				{ID: "d", Stock: 1}, {ID: "e", Stock: 1}, {ID: "f", Stock: 1},
			},
			want: []string{"a", "b", "d", "e"},
		},
		{
			name: "nothing in stock shows the first four",
			products: []Product{
				{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"},
			},
			want: []string{"a", "b", "c", "d"},
		},
		{
			name:     "empty catalog",
			products: nil,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, featuredIDs(SelectFeatured(tt.products)))
		})
	}
}

func TestCategoryFromSlug(t *testing.T) {
	assert.Equal(t, "Huevos", CategoryFromSlug("huevos"))
	assert.Equal(t, "Frutos secos", CategoryFromSlug("frutos-secos"))
	assert.Equal(t, "Frutos secos", CategoryFromSlug("Frutos-Secos"))
	assert.Equal(t, "Frutos secos", CategoryFromSlug("Frutos secos"))
	assert.Equal(t, "Todas", CategoryFromSlug("Todas"))
	assert.Equal(t, "", CategoryFromSlug(""))
}

func TestProduct_ApplyDefaults(t *testing.T) {
	p := Product{ID: "p1", Name: "Queso"}
	p.ApplyDefaults()
	assert.Equal(t, DefaultProductImage, p.Image)

	p = Product{ID: "p1", Name: "Queso", Image: "assets/img/queso.jpg"}
	p.ApplyDefaults()
	assert.Equal(t, "assets/img/queso.jpg", p.Image)
}
