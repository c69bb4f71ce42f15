package models

// Product represents a catalog entry. Field names match the wire format
// expected by existing clients; productId is assigned by the client on add,
// not generated server-side.
type Product struct {
	ProductID   int     `json:"productId" bson:"productId"`
	ProductName string  `json:"productName" bson:"productName"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64 `json:"price" bson:"price"`
	Stock       int     `json:"stock" bson:"stock"`
	ImageURL    string  `json:"imageUrl" bson:"imageUrl"`
}

// Order represents a customer order. The O_-prefixed wire names come from the
// existing order collection and must stay as-is. TotalCost is a snapshot taken
// at checkout and is never recomputed on read.
type Order struct {
	OrderID   string  `json:"O_ID" bson:"O_ID"`
	Address   string  `json:"O_Address" bson:"O_Address"`
	ProductID int     `json:"O_P_ID" bson:"O_P_ID"`
	Status    string  `json:"O_status" bson:"O_status"`
	TotalCost float64 `json:"O_totalcost" bson:"O_totalcost"`
	Quantity  int     `json:"order_quantity" bson:"order_quantity"`
}

// Order statuses. The casing split between creation and addressing is
// load-bearing for existing status consumers, so both tokens are kept.
const (
	OrderStatusCreated   = "Pending"
	OrderStatusAddressed = "pending"
)

// PlaceholderAddress is assigned at checkout until the order is addressed.
const PlaceholderAddress = "Sample Address"
