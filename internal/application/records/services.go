package records

// Logical names of the record owners and the resources their records are
// read from. The base address behind a name comes from service location.
const (
	UserService     = "user-service"
	UsersResource   = "api/users"
	ProductService  = "product-service"
	ProductResource = "api/products"
	OrderService    = "order-service"
	OrderResource   = "api/orders"
)
