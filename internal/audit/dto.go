package audit

// Filters narrows an audit query. All fields are optional and AND-combined.
type Filters struct {
	Action       string
	ResourceType string
	StartDate    string
	EndDate      string
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ListResponse struct {
	Logs       []ListItem `json:"logs"`
	Pagination Pagination `json:"pagination"`
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

type ResourceCount struct {
	ResourceType string `json:"resource_type" gorm:"column:resource_type"`
	Count        int64  `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	ActionStats   []ActionCount   `json:"action_stats"`
	ResourceStats []ResourceCount `json:"resource_stats"`
	DailyActivity []DailyCount    `json:"daily_activity"`
}
