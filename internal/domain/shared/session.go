package shared

// Session carries the caller's credentials through a request.
// It is passed explicitly into every collaborator call.
type Session struct {
	Token    string
	UserID   string
	Username string
}

// IsAnonymous reports whether the session carries no token
func (s Session) IsAnonymous() bool {
	return s.Token == ""
}
