package mercadolivre

// Item is a seller listing as returned by the items API.
type Item struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	CategoryID    string       `json:"category_id"`
	Price         float64      `json:"price"`
	Status        string       `json:"status"`
	ListingTypeID string       `json:"listing_type_id"`
	Shipping      ItemShipping `json:"shipping"`
}

type ItemShipping struct {
	LogisticType string `json:"logistic_type"`
	Dimensions   string `json:"dimensions"` // "LxWxH,weight_grams" or "weight_grams x ..."
}

// Order is one marketplace order from the orders search API.
type Order struct {
	ID          int64       `json:"id"`
	DateCreated string      `json:"date_created"`
	Status      string      `json:"status"`
	OrderItems  []OrderItem `json:"order_items"`
	Shipping    struct {
		ID int64 `json:"id"`
	} `json:"shipping"`
}

type OrderItem struct {
	Item struct {
		ID string `json:"id"`
	} `json:"item"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Shipment carries the realized shipping cost of an order.
type Shipment struct {
	ID       int64   `json:"id"`
	ListCost float64 `json:"list_cost"`
	Cost     float64 `json:"cost"`
}

// User is the authenticated seller account.
type User struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

type itemsSearchResponse struct {
	Results []string `json:"results"`
}

type multiGetEntry struct {
	Code int  `json:"code"`
	Body Item `json:"body"`
}

type ordersSearchResponse struct {
	Results []Order `json:"results"`
	Paging  struct {
		Total int `json:"total"`
	} `json:"paging"`
}
