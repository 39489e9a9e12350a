package server

import (
	"net/http"

	"github.com/webindexer/webindexer/pkg/index"
)

// authenticate checks the request's basic-auth credentials against the
// resolved configuration.
//
// A directory without an auth list is open: everyone passes, and any
// credentials the client happens to send still name the identity used for
// per-entry filtering. With an auth list, credentials must match one
// configured pair exactly.
func (s *Server) authenticate(r *http.Request, cfg index.DirectoryConfig) (index.Identity, bool) {
	user, password, ok := r.BasicAuth()

	if len(cfg.AuthUsers) == 0 {
		if ok {
			return index.Identity(user), true
		}
		return index.Anonymous, true
	}

	if !ok {
		return index.Anonymous, false
	}

	for _, cred := range cfg.AuthUsers {
		if cred.User == user && cred.Password == password {
			return index.Identity(user), true
		}
	}
	return index.Anonymous, false
}

// requireLogin answers with a basic-auth challenge.
func requireLogin(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Protected"`)
	w.WriteHeader(http.StatusUnauthorized)
}
