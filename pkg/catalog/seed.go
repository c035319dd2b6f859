/*
Package catalog ships the demo inventory. The seed data lives in an
embedded YAML file so a fresh deployment can be populated without any
external fixtures.
*/
package catalog

import (
	_ "embed"

	"context"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/shopchat/pkg/stores"
	"github.com/theapemachine/shopchat/pkg/types"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed data/products.yml
var seedData []byte

type seedProduct struct {
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description"`
	Price         float64 `yaml:"price"`
	Category      string  `yaml:"category"`
	Brand         string  `yaml:"brand"`
	StockQuantity int     `yaml:"stock_quantity"`
	ImageURL      string  `yaml:"image_url"`
	Rating        float64 `yaml:"rating"`
	IsFeatured    bool    `yaml:"is_featured"`
	IsOnSale      bool    `yaml:"is_on_sale"`
	SalePrice     float64 `yaml:"sale_price"`
}

type seedUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type seedFile struct {
	Products []seedProduct `yaml:"products"`
	Users    []seedUser    `yaml:"users"`
}

/*
Seeder populates the backing stores with the embedded demo catalog and
sample accounts.
*/
type Seeder struct {
	products   stores.ProductStore
	users      stores.UserStore
	bcryptCost int
}

func NewSeeder(products stores.ProductStore, users stores.UserStore) *Seeder {
	return &Seeder{
		products:   products,
		users:      users,
		bcryptCost: bcrypt.DefaultCost,
	}
}

/*
Seed loads the embedded catalog into the product store and creates the
sample accounts. It is safe to call on an already seeded store, duplicate
accounts are skipped.
*/
func (seeder *Seeder) Seed(ctx context.Context) error {
	var file seedFile

	if err := yaml.Unmarshal(seedData, &file); err != nil {
		return err
	}

	for idx := range file.Products {
		seed := file.Products[idx]

		product := &types.Product{
			Name:          seed.Name,
			Description:   seed.Description,
			Price:         seed.Price,
			Category:      seed.Category,
			Brand:         seed.Brand,
			StockQuantity: seed.StockQuantity,
			ImageURL:      seed.ImageURL,
			Rating:        seed.Rating,
			IsFeatured:    seed.IsFeatured,
			IsOnSale:      seed.IsOnSale,
			SalePrice:     seed.SalePrice,
		}

		if err := seeder.products.Put(ctx, product); err != nil {
			return err
		}
	}

	for idx := range file.Users {
		if err := seeder.createUser(ctx, file.Users[idx]); err != nil {
			return err
		}
	}

	log.Info("catalog seeded",
		"products", len(file.Products),
		"users", len(file.Users),
	)

	return nil
}

func (seeder *Seeder) createUser(ctx context.Context, seed seedUser) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), seeder.bcryptCost)

	if err != nil {
		return err
	}

	user := &types.User{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := seeder.users.Create(ctx, user); err != nil {
		// Re-seeding an existing database should not fail on the
		// sample accounts.
		log.Warn("skipping sample user", "username", seed.Username, "error", err)
	}

	return nil
}
