package model

// Role identifies what a user may do in the storefront.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is a storefront account.
// Password is stored in plaintext; this is a local mock of authentication.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
	JoinDate string `json:"joinDate,omitempty"`
	Password string `json:"password,omitempty"`
}

// HasPassword reports whether the account has a password set.
// Accounts without one accept any supplied password at login.
func (u User) HasPassword() bool {
	return u.Password != ""
}

// Product is a catalog entry. Price is in whole currency units.
type Product struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Price            int64    `json:"price"`
	Category         string   `json:"category"`
	ImageURL         string   `json:"imageUrl"`
	Stock            int      `json:"stock"`
	Tags             []string `json:"tags"`
	AIPricingDetails string   `json:"aiPricingDetails,omitempty"`
}

// CartItem is a product with a quantity. Identity is the product ID.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price × quantity.
func (c CartItem) LineTotal() int64 {
	return c.Price * int64(c.Quantity)
}

// Order is a snapshot of a cart at checkout time.
type Order struct {
	ID     string      `json:"id"`
	UserID string      `json:"userId"`
	Items  []CartItem  `json:"items"`
	Total  int64       `json:"total"`
	Status OrderStatus `json:"status"`
	Date   string      `json:"date"`
}

// Review is a customer's rating of a product.
type Review struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Date      string `json:"date"`
}

// Message is a contact-form submission.
type Message struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Read    bool   `json:"read"`
}

// WishlistItem links a user to a product. Identity is (UserID, ProductID).
type WishlistItem struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Date      string `json:"date"`
}

// AnalyticsMetric is one synthetic traffic sample.
type AnalyticsMetric struct {
	Timestamp    int64  `json:"timestamp"` // unix milliseconds
	ActiveUsers  int    `json:"activeUsers"`
	PageViews    int    `json:"pageViews"`
	RecentAction string `json:"recentAction"`
}

// NotificationType is the severity of a user-facing notification.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyInfo    NotificationType = "info"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
)

// Notification is an ephemeral, process-memory message for the user.
// Recipient is set on alerts addressed to one user (order updates).
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Recipient string           `json:"recipient,omitempty"`
}

// ChatRole tags who authored a chat message.
type ChatRole string

const (
	ChatUser  ChatRole = "user"
	ChatModel ChatRole = "model"
)

// ChatMessage is one entry of a chat transcript.
// Image carries a data URI when the studio generated a visualization.
type ChatMessage struct {
	ID        string   `json:"id"`
	Role      ChatRole `json:"role"`
	Text      string   `json:"text"`
	Image     string   `json:"image,omitempty"`
	Timestamp int64    `json:"timestamp"`
}
