package domain

import "fmt"

// Owner identifies whose cart is addressed: exactly one of UserID or SessionID is set.
type Owner struct {
	UserID    string
	SessionID string
}

func UserOwner(userID string) Owner {
	return Owner{UserID: userID}
}

func SessionOwner(sessionID string) Owner {
	return Owner{SessionID: sessionID}
}

func (o Owner) Validate() error {
	if o.UserID == "" && o.SessionID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if o.UserID != "" && o.SessionID != "" {
		return fmt.Errorf("owner has both user and session id")
	}
	return nil
}

func (o Owner) IsUser() bool {
	return o.UserID != ""
}

func (o Owner) String() string {
	if o.IsUser() {
		return "user:" + o.UserID
	}
	return "session:" + o.SessionID
}
