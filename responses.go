package soundcloudclient

// PaginationParams contains parameters for paginated requests
type PaginationParams struct {
	Limit int    // Page size (0 for the API default)
	Next  string // next_href from the previous page
}

// PaginatedResponse provides pagination metadata
type PaginatedResponse struct {
	HasMore bool   // Whether more results are available
	Next    string // URL of the next page (for the next request)
}

// TracksResponse represents a page of tracks
type TracksResponse struct {
	Tracks []Track
	PaginatedResponse
}

// collectionPage is the linked-partitioning envelope used by list endpoints
type collectionPage[T any] struct {
	Collection []T    `json:"collection"`
	NextHref   string `json:"next_href"`
}

func (p collectionPage[T]) pagination() PaginatedResponse {
	return PaginatedResponse{
		HasMore: p.NextHref != "",
		Next:    p.NextHref,
	}
}
