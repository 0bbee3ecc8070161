package soundcloudclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetTrack retrieves a track by id.
func (c *Client) GetTrack(ctx context.Context, id int64) (*Track, error) {
	var track Track
	path := fmt.Sprintf("/tracks/%d", id)
	if err := c.getJSON(ctx, "GetTrack", path, nil, &track); err != nil {
		return nil, err
	}

	c.logDebug("Track decoded",
		"operation", "GetTrack",
		"track_id", track.ID,
		"streamable", track.Streamable,
	)
	return &track, nil
}

// GetUser retrieves a user profile by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	path := fmt.Sprintf("/users/%d", id)
	if err := c.getJSON(ctx, "GetUser", path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUserTracks retrieves the tracks uploaded by a user.
// Pass the previous page's Next in pagination to continue.
func (c *Client) ListUserTracks(ctx context.Context, userID int64, pagination *PaginationParams) (*TracksResponse, error) {
	path := fmt.Sprintf("/users/%d/tracks", userID)
	query := url.Values{}
	query.Set("linked_partitioning", "true")

	if pagination != nil {
		if pagination.Limit > 0 {
			query.Set("limit", strconv.Itoa(pagination.Limit))
		}
		if pagination.Next != "" {
			// next_href already carries the cursor and limit
			path = pagination.Next
			query = nil
		}
	}

	var page collectionPage[Track]
	if err := c.getJSON(ctx, "ListUserTracks", path, query, &page); err != nil {
		return nil, err
	}

	paginationResp := page.pagination()
	c.logDebug("Tracks page decoded",
		"operation", "ListUserTracks",
		"user_id", userID,
		"track_count", len(page.Collection),
		"has_more", paginationResp.HasMore,
	)

	return &TracksResponse{
		Tracks:            page.Collection,
		PaginatedResponse: paginationResp,
	}, nil
}

// GetStreams retrieves the playable stream URLs of a track.
func (c *Client) GetStreams(ctx context.Context, trackID int64) (*Streams, error) {
	var streams Streams
	path := fmt.Sprintf("/tracks/%d/streams", trackID)
	if err := c.getJSON(ctx, "GetStreams", path, nil, &streams); err != nil {
		return nil, err
	}
	if streams.MP3URL == "" && streams.HLSURL == "" {
		return nil, fmt.Errorf("track %d has no playable stream", trackID)
	}
	return &streams, nil
}
