package hypixel

// bazaarAPIResponse mirrors the subset of GET /skyblock/bazaar we read.
type bazaarAPIResponse struct {
	Success     bool                     `json:"success"`
	Cause       string                   `json:"cause,omitempty"`
	LastUpdated int64                    `json:"lastUpdated"`
	Products    map[string]bazaarProduct `json:"products"`
}

type bazaarProduct struct {
	ProductID   string       `json:"product_id"`
	QuickStatus *quickStatus `json:"quick_status"`
}

// quickStatus uses pointers so a missing price is distinguishable from 0.
type quickStatus struct {
	ProductID      string   `json:"productId"`
	SellPrice      *float64 `json:"sellPrice"`
	SellVolume     int64    `json:"sellVolume"`
	SellMovingWeek int64    `json:"sellMovingWeek"`
	SellOrders     int64    `json:"sellOrders"`
	BuyPrice       *float64 `json:"buyPrice"`
	BuyVolume      int64    `json:"buyVolume"`
	BuyMovingWeek  int64    `json:"buyMovingWeek"`
	BuyOrders      int64    `json:"buyOrders"`
}
