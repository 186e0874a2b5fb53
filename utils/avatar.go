package utils

import "net/url"

// AvatarURL derives the profile image for a user deterministically from their
// username, falling back to the user id. Nothing is uploaded or stored.
func AvatarURL(username, userID string) string {
	seed := username
	if seed == "" {
		seed = userID
	}
	return "https://api.dicebear.com/7.x/identicon/svg?seed=" + url.QueryEscape(seed) +
		"&backgroundType=gradientLinear&backgroundColor=b6e3f4,c0aede,d1d4f9"
}
