package resource

// Collection names, one per kind.
const (
	CollectionUser       = "user"
	CollectionProduct    = "product"
	CollectionCategory   = "category"
	CollectionBlog       = "blog"
	CollectionSaleConfig = "saleconfig"
)

var (
	User = &Kind{
		Name:        CollectionUser,
		Title:       "User",
		Description: "Users collection schema",
		Fields: []Field{
			{Name: "name", Type: TypeString, Required: true, Description: "Full name"},
			{Name: "email", Type: TypeString, Required: true, Description: "Email address"},
			{Name: "address", Type: TypeString, Required: true, Description: "Address"},
			{Name: "age", Type: TypeInteger, Nullable: true, Minimum: bound(0), Maximum: bound(120), Description: "Age in years"},
			{Name: "is_active", Type: TypeBoolean, Default: true, Description: "Whether user is active"},
		},
	}

	Product = &Kind{
		Name:        CollectionProduct,
		Title:       "Product",
		Description: "Products collection schema",
		Fields: []Field{
			{Name: "title", Type: TypeString, Required: true, Description: "Product title"},
			{Name: "description", Type: TypeString, Nullable: true, Description: "Product description"},
			{Name: "price", Type: TypeNumber, Required: true, Minimum: bound(0), Description: "Price in dollars"},
			{Name: "category", Type: TypeString, Required: true, Description: "Product category"},
			{Name: "in_stock", Type: TypeBoolean, Default: true, Description: "Whether product is in stock"},
			{Name: "sku", Type: TypeString, Nullable: true, Description: "Stock keeping unit"},
			{Name: "image_url", Type: TypeString, Nullable: true, Description: "Image URL"},
		},
	}

	Category = &Kind{
		Name:  CollectionCategory,
		Title: "Category",
		Fields: []Field{
			{Name: "name", Type: TypeString, Required: true, Description: "Category name"},
			{Name: "description", Type: TypeString, Nullable: true, Description: "Category description"},
			{Name: "is_active", Type: TypeBoolean, Default: true, Description: "Category active status"},
		},
	}

	Blog = &Kind{
		Name:  CollectionBlog,
		Title: "Blog",
		Fields: []Field{
			{Name: "title", Type: TypeString, Required: true, Description: "Blog title"},
			{Name: "content", Type: TypeString, Required: true, Description: "Blog content (markdown or HTML)"},
			{Name: "author", Type: TypeString, Required: true, Description: "Author name"},
			{Name: "is_published", Type: TypeBoolean, Default: false, Description: "Publish status"},
		},
	}

	// SaleConfig lives in a singleton collection.
	SaleConfig = &Kind{
		Name:  CollectionSaleConfig,
		Title: "SaleConfig",
		Fields: []Field{
			{Name: "global_sale_active", Type: TypeBoolean, Default: false, Description: "Whether global sale is active"},
			{Name: "global_discount_percent", Type: TypeNumber, Default: 0.0, Minimum: bound(0), Maximum: bound(100), Description: "Global discount percent"},
			{Name: "product_sales", Type: TypeNumberMap, Default: map[string]any{}, Description: "Per-product sale percentages"},
		},
	}
)

var kinds = []*Kind{User, Product, Category, Blog, SaleConfig}

// All returns every resource kind in a stable order.
func All() []*Kind {
	out := make([]*Kind, len(kinds))
	copy(out, kinds)
	return out
}
