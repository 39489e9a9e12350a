package index

// Identity is the authenticated username of the current visitor.
//
// It is supplied by the authentication layer and stays constant for the
// lifetime of a request. The zero value is the anonymous visitor, which is
// never a member of any access set.
type Identity string

// Anonymous is the identity of an unauthenticated visitor.
const Anonymous Identity = ""
