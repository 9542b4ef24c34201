// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthTokenRevoked       = "auth.token_revoked"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthUserInactive       = "auth.user_inactive"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAdminAccessDenied      = "auth.admin_access_denied"

	// Users
	KeyUserNotFound = "user.not_found"
	KeyUserUpdated  = "user.updated"

	// Catalog
	KeyCategoryCreated       = "category.created"
	KeyCategoryNotFound      = "category.not_found"
	KeyCategorySlugTaken     = "category.slug_taken"
	KeyCategoryHasChildren   = "category.has_children"
	KeyCategoryHasProducts   = "category.has_products"
	KeyProductCreated        = "product.created"
	KeyProductUpdated        = "product.updated"
	KeyProductDeleted        = "product.deleted"
	KeyProductRestored       = "product.restored"
	KeyProductNotFound       = "product.not_found"
	KeyVariantNotFound       = "variant.not_found"
	KeyImageNotFound         = "image.not_found"

	// Orders
	KeyOrderCreated           = "order.created"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderCancelled         = "order.cancelled"
	KeyOrderInvalidItem       = "order.invalid_item"
	KeyOrderInsufficientStock = "order.insufficient_stock"

	// Payments
	KeyPaymentSuccess   = "payment.success"
	KeyPaymentFailed    = "payment.failed"
	KeyPaymentRefunded  = "payment.refunded"
	KeyPaymentNotFound  = "payment.not_found"

	// Inventory
	KeyInventoryRecorded        = "inventory.recorded"
	KeyInventoryInvalidMovement = "inventory.invalid_movement"

	// Reviews / wishlist / templates
	KeyReviewCreated      = "review.created"
	KeyReviewInvalidScore = "review.invalid_score"
	KeyWishlistAdded      = "wishlist.added"
	KeyWishlistRemoved    = "wishlist.removed"
	KeyTemplateCreated    = "template.created"
	KeyTemplateNotFound   = "template.not_found"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"

	// Throttling
	KeyRateLimited = "rate_limited"
)
