// Package webapi is a typed client for the vendor's public Web API.
//
// It is independent of the native bridge: no running client process and
// no shared library are needed, only network access and, for most user
// operations, an API key. The native and web surfaces overlap on server
// time, which makes the Web API a useful cross-check when diagnosing a
// local session.
//
//	api := webapi.New(webapi.WithKey(key))
//	when, err := api.ServerTime(ctx)
//
// Transport failures and 5xx responses are retried a bounded number of
// times; 4xx responses are surfaced immediately with the HTTP status as
// detail. The vendor rate-limits keys aggressively, so callers batching
// requests should pace themselves.
package webapi
