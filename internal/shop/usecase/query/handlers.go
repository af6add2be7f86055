package query

// Handlers holds all query handlers
type Handlers struct {
	GetCart      *GetCartHandler
	GetWishlist  *GetWishlistHandler
	ListProducts *ListProductsHandler
	GetProduct   *GetProductHandler
	CheckToken   *CheckTokenHandler
}
