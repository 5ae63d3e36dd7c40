package app

import (
	"errors"
	"fmt"

	"github.com/strokerisk/strokerisk/internal/auth"
)

// ErrInvalidTransition is returned when an event is not defined for the
// current page.
var ErrInvalidTransition = errors.New("invalid page transition")

// Page is a top-level application page.
type Page int

const (
	PageLanding Page = iota
	PageHome
	PageLogin
	PageUserSession
	PageAdminSession
)

func (p Page) String() string {
	switch p {
	case PageLanding:
		return "landing"
	case PageHome:
		return "home"
	case PageLogin:
		return "login"
	case PageUserSession:
		return "user_session"
	case PageAdminSession:
		return "admin_session"
	default:
		return fmt.Sprintf("page(%d)", int(p))
	}
}

// InSession reports whether p requires a signed-in user.
func (p Page) InSession() bool {
	return p == PageUserSession || p == PageAdminSession
}

// Event drives page transitions. Events are also delivered as Bubble Tea
// messages.
type Event interface {
	event()
}

// GetStarted leaves the landing splash.
type GetStarted struct{}

// OpenLogin opens the sign-in page from home.
type OpenLogin struct{}

// Back returns from the sign-in page to home.
type Back struct{}

// LoggedIn carries the user who just signed in.
type LoggedIn struct {
	User auth.User
}

// Logout ends the current session.
type Logout struct{}

func (GetStarted) event() {}
func (OpenLogin) event()  {}
func (Back) event()       {}
func (LoggedIn) event()   {}
func (Logout) event()     {}

// State is the application's page and signed-in user. The zero value is
// the landing page with nobody signed in.
type State struct {
	Page Page
	User *auth.User
}

// Apply returns the state after ev, or ErrInvalidTransition when ev is not
// defined for s.Page. s itself is never modified.
func (s State) Apply(ev Event) (State, error) {
	switch ev := ev.(type) {
	case GetStarted:
		if s.Page == PageLanding {
			return State{Page: PageHome}, nil
		}
	case OpenLogin:
		if s.Page == PageHome {
			return State{Page: PageLogin}, nil
		}
	case Back:
		if s.Page == PageLogin {
			return State{Page: PageHome}, nil
		}
	case LoggedIn:
		if s.Page == PageLogin {
			u := ev.User
			if u.IsAdmin() {
				return State{Page: PageAdminSession, User: &u}, nil
			}
			return State{Page: PageUserSession, User: &u}, nil
		}
	case Logout:
		if s.Page.InSession() {
			return State{Page: PageLanding}, nil
		}
	}
	return s, fmt.Errorf("%w: %T on %s", ErrInvalidTransition, ev, s.Page)
}
