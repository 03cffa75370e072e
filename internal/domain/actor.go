package domain

// ActorContext identifies who is looking at a view. It is built once per request
// from the session and handed to view controllers explicitly.
type ActorContext struct {
	Role   Role   `json:"role"`
	UserID string `json:"user_id"`
	// Token is forwarded to the REST backend and never serialized.
	Token string `json:"-"`
}

// HasUser reports whether the actor carries a user identifier.
func (a ActorContext) HasUser() bool {
	return a.UserID != ""
}
