package domain

// Session is the in-memory view of the current operator and their credentials.
// IsAuthenticated is true only while AccessToken is set and was unexpired when
// last checked.
type Session struct {
	User            *UserProfile
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
	IsLoading       bool
	Error           string
	Status          SessionStatus
}

// Clone returns a copy that shares no pointers with the receiver.
func (s Session) Clone() Session {
	s.User = s.User.Clone()
	return s
}

// PersistedSession is the only part of Session written to durable storage.
// Loading and error state are transient and never persisted.
type PersistedSession struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *UserProfile `json:"user"`
}

// IsEmpty reports whether the record carries no credentials at all.
func (p *PersistedSession) IsEmpty() bool {
	return p == nil || (p.AccessToken == "" && p.RefreshToken == "" && p.User == nil)
}
