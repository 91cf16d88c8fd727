package domain

type Review struct {
	BusinessID string  `json:"business_id"`
	ReviewID   string  `json:"review_id"`
	UserID     *string `json:"user_id"`
	Title      string  `json:"title"`
	Text       string  `json:"text"`
	Date       string  `json:"date"` // site-native representation, not reparsed
	Rating     int     `json:"rating"`
	Votes      int     `json:"votes"`
}
