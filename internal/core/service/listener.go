package service

// SessionListener is told when a session gains or loses its user.
type SessionListener interface {
	SessionStarted(key string)
	SessionEnded(key string)
}

// Listeners fans session events out to several listeners in order.
type Listeners []SessionListener

func (ls Listeners) SessionStarted(key string) {
	for _, l := range ls {
		l.SessionStarted(key)
	}
}

func (ls Listeners) SessionEnded(key string) {
	for _, l := range ls {
		l.SessionEnded(key)
	}
}

type nopListener struct{}

func (nopListener) SessionStarted(string) {}
func (nopListener) SessionEnded(string)   {}
