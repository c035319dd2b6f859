package types

import "time"

/*
Product represents a single item in the store inventory. The JSON shape
matches what the HTTP API and the chat replies expose to clients.
*/
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	StockQuantity int       `json:"stock_quantity"`
	ImageURL      string    `json:"image_url,omitempty"`
	Rating        float64   `json:"rating"`
	IsFeatured    bool      `json:"is_featured"`
	IsOnSale      bool      `json:"is_on_sale"`
	SalePrice     float64   `json:"sale_price,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

/*
DisplayPrice returns the price a customer actually pays: the sale price
when the product is on sale, the regular price otherwise.
*/
func (product *Product) DisplayPrice() float64 {
	if product.IsOnSale && product.SalePrice > 0 {
		return product.SalePrice
	}
	return product.Price
}

/*
Summary converts a Product into the flattened shape carried inside chat
replies, with the display price already resolved.
*/
func (product *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		DisplayPrice:  product.DisplayPrice(),
		Category:      product.Category,
		Brand:         product.Brand,
		StockQuantity: product.StockQuantity,
		ImageURL:      product.ImageURL,
		Rating:        product.Rating,
		IsOnSale:      product.IsOnSale,
	}
}

/*
ProductSummary is the product payload attached to product_list replies.
*/
type ProductSummary struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	DisplayPrice  float64 `json:"display_price"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url,omitempty"`
	Rating        float64 `json:"rating"`
	IsOnSale      bool    `json:"is_on_sale"`
}
