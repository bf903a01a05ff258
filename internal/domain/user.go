package domain

import "fmt"

type Membership string

const (
	Free    Membership = "free"
	Premium Membership = "premium"
)

func (m Membership) Valid() bool {
	return m == Free || m == Premium
}

// User is a reader account. Passwords are kept and compared as plain text; this is a demo site.
type User struct {
	Username   string     `json:"username"`
	Password   string     `json:"password"`
	Membership Membership `json:"membership"`
}

func (u User) IsPremium() bool {
	return u.Membership == Premium
}

func (u User) Validate() error {
	switch {
	case u.Username == "":
		return fmt.Errorf("%w: user without username", ErrInvalidRecord)
	case !u.Membership.Valid():
		return fmt.Errorf("%w: user %s has unknown membership %q", ErrInvalidRecord, u.Username, u.Membership)
	}
	return nil
}

// Users is the persisted account directory.
type Users []User

func (us Users) Validate() error {
	for _, u := range us {
		if err := u.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Normalize drops every account whose username already appeared earlier in the list. The first one is the one
// Login and Find have always matched.
func (us Users) Normalize() Users {
	seen := make(map[string]struct{}, len(us))
	out := us[:0:0]
	for _, u := range us {
		if _, ok := seen[u.Username]; ok {
			continue
		}
		seen[u.Username] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Find returns the index of the user with the given username, or -1.
func (us Users) Find(username string) int {
	for i, u := range us {
		if u.Username == username {
			return i
		}
	}
	return -1
}
