package domain

// ActivityItem is a single entry of the activity list.
type ActivityItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}
