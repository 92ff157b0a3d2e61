// Package identity is the session core of the SDK: it keeps one invocation's
// view of the authentication state (service token, user tokens, login status)
// consistent with the identity provider and with the persisted token slots.
//
// # Lifecycle
//
// A process builds one Identity at startup and one Session per invocation.
// Synchronize runs the reconciliation state machine exactly once per session:
//
//	gw, err := gateway.New(gwCfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	codec := tokencodec.New(gwCfg.ClientSecret)
//
//	id := identity.New(gw, codec,
//		identity.WithCache(redisCache),
//		identity.WithRedirectURI("https://app.example.com/callback"),
//	)
//
//	mux.Handle("/", id.Middleware()(appHandler))
//
// Handlers behind the middleware read the session from the request context:
//
//	sess := identity.MustFromContext(r.Context())
//	if !sess.IsConnected() {
//		http.Redirect(w, r, loginURL, http.StatusFound)
//		return
//	}
//
// # Reconciliation
//
// Synchronize resolves the service token first (shared cache, persisted slot,
// fresh issuance, in that order), restores user tokens from their slots, and
// then either exchanges a single-sign-on signal, refreshes an expired access
// token, or re-validates an apparently live one. When the provider no longer
// considers the identity connected, local user state is cleared so the
// embedding application never trusts a revoked session. The service token is
// client-level and survives every user-level cleanup.
//
// # Caching
//
// The service token is mirrored into the shared cache under a fixed key: the
// SDK assumes one OAuth client per cache pool. Embeddings serving several
// clients from one pool must give each client its own cache (key prefixing in
// the cache implementation, or separate pools).
package identity
