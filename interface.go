package soundcloudclient

import "context"

// API defines the read operations the player needs from SoundCloud.
type API interface {
	// GetTrack retrieves a single track.
	GetTrack(ctx context.Context, id int64) (*Track, error)

	// GetUser retrieves a user profile.
	GetUser(ctx context.Context, id int64) (*User, error)

	// ListUserTracks retrieves a user's tracks.
	// Supports optional pagination.
	ListUserTracks(ctx context.Context, userID int64, pagination *PaginationParams) (*TracksResponse, error)

	// GetStreams retrieves stream URLs for a track.
	GetStreams(ctx context.Context, trackID int64) (*Streams, error)
}

// Compile-time interface compliance check
var _ API = (*Client)(nil)
