package soundcloudclient

// DefaultPathMapping folds legacy and verbose API field names onto the names the
// decoded types use. When both names are present in one object the legacy value wins.
var DefaultPathMapping = MustPathMapping(map[string]string{
	"favoritings_count":      "likes_count",
	"public_favorites_count": "likes_count",
	"http_mp3_128_url":       "mp3_url",
	"hls_mp3_128_url":        "hls_url",
	"preview_mp3_128_url":    "preview_url",
})

// MiniUser is the owner summary embedded in a track
type MiniUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PermalinkURL string `json:"permalink_url"`
	AvatarURL    string `json:"avatar_url"`
}

// Track represents a SoundCloud track
type Track struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Duration      int64    `json:"duration"` // milliseconds
	Genre         string   `json:"genre"`
	PermalinkURL  string   `json:"permalink_url"`
	ArtworkURL    string   `json:"artwork_url"`
	StreamURL     string   `json:"stream_url"`
	Streamable    bool     `json:"streamable"`
	LikesCount    int64    `json:"likes_count"`
	PlaybackCount int64    `json:"playback_count"`
	CreatedAt     string   `json:"created_at"`
	User          MiniUser `json:"user"`
}

// User represents a SoundCloud user profile
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	PermalinkURL   string `json:"permalink_url"`
	AvatarURL      string `json:"avatar_url"`
	TrackCount     int64  `json:"track_count"`
	FollowersCount int64  `json:"followers_count"`
	LikesCount     int64  `json:"likes_count"`
}

// Streams holds the playable transcodings of a track
type Streams struct {
	MP3URL     string `json:"mp3_url"`
	HLSURL     string `json:"hls_url"`
	PreviewURL string `json:"preview_url"`
}
