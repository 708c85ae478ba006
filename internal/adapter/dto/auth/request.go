package auth

// RefreshTokenRequest represents the request to refresh access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents the request to logout
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdatePreferencesRequest represents the request to change rehearsal display preferences.
// Omitted fields keep their current value.
type UpdatePreferencesRequest struct {
	HideOwnLines   *bool `json:"hide_own_lines,omitempty"`
	ShowSungMarker *bool `json:"show_sung_marker,omitempty"`
	WordByWord     *bool `json:"word_by_word,omitempty"`
}
