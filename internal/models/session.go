package models

// Session pairs the bearer token with the profile it was issued for.
// Both fields are set together or not at all.
type Session struct {
	Token string   `json:"token"`
	User  *Profile `json:"currentUser"`
}

// Complete reports whether both halves of the session are present.
func (s *Session) Complete() bool {
	return s != nil && s.Token != "" && s.User != nil
}
