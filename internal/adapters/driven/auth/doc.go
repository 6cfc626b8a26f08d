// Package auth provides the OAuth adapters for Google Workspace access:
// a JSON token file, a refreshing credential provider and the
// installed-app authorizer built from the downloaded client secrets.
package auth
