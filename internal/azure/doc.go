// Package azure talks to Azure AD and the Cost Management query API.
//
// It handles:
//   - OAuth2 client-credentials token exchange (one token per run)
//   - Range queries covering the full reporting window in a single call,
//     grouped by ResourceType and ChargeType
//   - Single-day queries grouped by ResourceType
//   - Cooperative rate-limit handling: 429 responses are retried after the
//     advertised Retry-After duration; the range path is time-boxed by a
//     retry budget, the single-day path is capped at MaxDayRetries attempts
//     with exponential backoff when no Retry-After header is present
//
// Any non-429 failure is returned to the caller, which skips the affected
// subscription rather than aborting the run.
//
// The main types are:
//   - Client: Cost Management query client bound to one bearer token
//   - QueryProperties: the raw tabular response (columns + rows)
//   - RateLimitedError: a 429 with its optional Retry-After duration
//
// Example usage:
//
//	token, err := azure.AcquireToken(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client := azure.NewClient(token, cfg, m, logger)
//	props, err := client.QueryRange(ctx, sub, start, end)
//	if err != nil {
//		// skip this subscription
//	}
package azure
