// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/ctxutil"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/sec"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Identity extracts the resolved identity from the request context.

Returns nil if the request is anonymous.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the identity.

Returns:
  - *sec.Identity: The resolved identity
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return identity, nil
}

/*
RequiredAdmin ensures the request carries an admin identity.

Form actions on the admin area call this at action time, independent of the
route guard, so an unauthenticated POST can never silently succeed.

Returns:
  - *sec.Identity: The resolved admin identity
  - error: apperr.Unauthorized for anonymous, apperr.Forbidden for non-admin
*/
func RequiredAdmin(request *http.Request) (*sec.Identity, error) {
	identity, err := RequiredIdentity(request)
	if err != nil {
		return nil, err
	}

	if !identity.IsAdmin() {
		return nil, apperr.Forbidden("Administrator access required")
	}

	return identity, nil
}
