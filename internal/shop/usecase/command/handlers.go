package command

// Handlers holds all command handlers
type Handlers struct {
	Signup         *SignupHandler
	Login          *LoginHandler
	ForgotPassword *ForgotPasswordHandler
	ResetPassword  *ResetPasswordHandler

	CreateProduct *CreateProductHandler

	AddToCart      *AddToCartHandler
	AdjustQuantity *AdjustQuantityHandler
	RemoveFromCart *RemoveFromCartHandler
	ClearCart      *ClearCartHandler

	AddToWishlist      *AddToWishlistHandler
	RemoveFromWishlist *RemoveFromWishlistHandler
	ClearWishlist      *ClearWishlistHandler
	MigrateWishlist    *MigrateWishlistHandler
}
