package services

// Credentials is what a caller presents to authenticate: either
// LocalCredentials or an ExternalAssertion.
type Credentials interface {
	isCredentials()
}

// LocalCredentials is an email and password pair.
type LocalCredentials struct {
	Email    string
	Password string
}

// ExternalAssertion is a profile asserted by Google after a completed
// sign-in.
type ExternalAssertion struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
}

func (LocalCredentials) isCredentials()  {}
func (ExternalAssertion) isCredentials() {}
