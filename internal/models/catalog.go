package models

// Category groups products in the catalog.
type Category struct {
	CategoryID   int    `json:"categoryId"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}

// CategoryInput is the create and update body for a category.
type CategoryInput struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}

// Product is a catalog item.
type Product struct {
	ProductID        int            `json:"productId"`
	CategoryID       int            `json:"categoryId,omitempty"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Description      string         `json:"description,omitempty"`
	ShortDescription string         `json:"shortDescription,omitempty"`
	Price            float64        `json:"price"`
	CompareAtPrice   *float64       `json:"compareAtPrice,omitempty"`
	StockQuantity    int            `json:"stockQuantity"`
	SKU              string         `json:"sku,omitempty"`
	Weight           *float64       `json:"weight,omitempty"`
	Origin           string         `json:"origin,omitempty"`
	IsActive         bool           `json:"isActive"`
	IsFeatured       bool           `json:"isFeatured"`
	ViewCount        int            `json:"viewCount"`
	SaleCount        int            `json:"saleCount"`
	CreatedAt        string         `json:"createdAt,omitempty"`
	Category         *Category      `json:"category,omitempty"`
	ProductImages    []ProductImage `json:"productImages,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// PrimaryImage returns the primary image URL, falling back to the first image.
func (p *Product) PrimaryImage() string {
	for _, img := range p.ProductImages {
		if img.IsPrimary {
			return img.ImageURL
		}
	}
	if len(p.ProductImages) > 0 {
		return p.ProductImages[0].ImageURL
	}
	return ""
}

type ProductImage struct {
	ImageID      int    `json:"imageId"`
	ProductID    int    `json:"productId"`
	ImageURL     string `json:"imageUrl"`
	AltText      string `json:"altText,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	IsPrimary    bool   `json:"isPrimary"`
}

// ProductInput is the create and update body for a product.
type ProductInput struct {
	CategoryID       int      `json:"categoryId,omitempty"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	Price            float64  `json:"price"`
	CompareAtPrice   *float64 `json:"compareAtPrice,omitempty"`
	StockQuantity    int      `json:"stockQuantity"`
	SKU              string   `json:"sku,omitempty"`
	Origin           string   `json:"origin,omitempty"`
	IsActive         bool     `json:"isActive"`
	IsFeatured       bool     `json:"isFeatured"`
}

// Review is a customer rating for a product.
type Review struct {
	ReviewID   int      `json:"reviewId"`
	ProductID  int      `json:"productId"`
	UserID     int      `json:"userId"`
	Rating     int      `json:"rating"`
	Title      string   `json:"title,omitempty"`
	Comment    string   `json:"comment,omitempty"`
	IsApproved bool     `json:"isApproved"`
	CreatedAt  string   `json:"createdAt,omitempty"`
	User       *Profile `json:"user,omitempty"`
}

type ReviewInput struct {
	ProductID int    `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// WishlistItem is a saved product.
type WishlistItem struct {
	WishlistID int      `json:"wishlistId"`
	ProductID  int      `json:"productId"`
	AddedAt    string   `json:"addedAt,omitempty"`
	Product    *Product `json:"product,omitempty"`
}
