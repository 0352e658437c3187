// Package acl is the anti-corruption layer between downstream services and
// the domain.
//
// Upstream DTOs stay unexported inside this package. Each adapter decodes
// the upstream payload, validates every record and translates it into domain
// types, so a change in the upstream shape stops here.
//
// Failures are translated to domain errors:
//   - 404 maps to [domain.ErrNotFound]
//   - 409 maps to [domain.ErrConflict]
//   - 400 and 422 map to [domain.ErrValidation]
//   - 429, 5xx, auth failures and transport errors map to [domain.ErrUnavailable]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// also become [domain.ErrUnavailable]. Context cancellation is returned as is
// so callers can tell a shutdown from an outage.
//
// [CatalogClient] is the product catalog adapter.
package acl
