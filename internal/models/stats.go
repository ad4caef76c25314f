package models

// DashboardStats is the admin dashboard report. The five figures come from
// independent queries with no cross-query consistency guarantee.
type DashboardStats struct {
	PublishedPosts    int   `json:"published_posts"`
	DraftPosts        int   `json:"draft_posts"`
	PendingComments   int   `json:"pending_comments"`
	ActiveSubscribers int   `json:"active_subscribers"`
	TotalViews        int64 `json:"total_views"`
}
