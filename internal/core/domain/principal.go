package domain

// Principal is the authenticated identity behind a request.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// SystemPrincipal acts on behalf of the daemon's background processes.
var SystemPrincipal = Principal{Username: "system", IsAdmin: true}

func (p Principal) IsSystem() bool {
	return p.UserID == 0 && p.IsAdmin
}
