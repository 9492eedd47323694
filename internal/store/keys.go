package store

// Fixed storage keys. The _v1 suffix versions the value layout.
const (
	KeyUsers     = "artisha_users_v1"
	KeyProducts  = "artisha_products_v1"
	KeyOrders    = "artisha_orders_v1"
	KeyAnalytics = "artisha_analytics_v1"
	KeyReviews   = "artisha_reviews_v1"
	KeyMessages  = "artisha_messages_v1"
	KeyWishlist  = "artisha_wishlist_v1"

	// KeyActiveSession holds the serialized active user (local scope).
	KeyActiveSession = "artisha_active_session"

	// KeyStudioChat holds the creative-studio transcript (session scope).
	KeyStudioChat = "artisha_studio_chat"
)

// AnalyticsRetain is how many analytics samples are kept.
const AnalyticsRetain = 20
