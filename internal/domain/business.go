package domain

// NoPriceTag is the sentinel stored when a detail page carries no
// price-range tag.
const NoPriceTag = "no price tag"

type Business struct {
	ID          string   `json:"id"`
	SourceURL   string   `json:"source_url"`
	Name        *string  `json:"name"`
	City        *string  `json:"city"`
	FullAddress *string  `json:"full_address"`
	Phone       *string  `json:"phone"`
	Categories  []string `json:"categories"`
	PriceTag    string   `json:"price_tag"`
	Stars       float64  `json:"stars"`
	ReviewCount int      `json:"review_count"`
	Coords      *Coords  `json:"coordinates"`
	IsClaimed   bool     `json:"is_claimed"`
	IsClosed    bool     `json:"is_closed"`
	ImageURL    *string  `json:"image_url"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
