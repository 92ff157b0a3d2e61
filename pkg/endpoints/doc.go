// Package endpoints loads the provider endpoint catalog: per-environment
// host maps plus the relative OAuth2 endpoint paths, resolved into the
// absolute URLs the gateway client needs.
//
// Example catalog:
//
//	environments:
//	  dev:
//	    auth: https://auth.dev.id.example.com
//	    api: https://api.dev.id.example.com
//	  prod:
//	    auth: https://auth.id.example.com
//	    api: https://api.id.example.com
//	paths:
//	  token: /oauth2/token
//	  revoke: /oauth2/revoke
//	  user_api: /api/user
package endpoints
