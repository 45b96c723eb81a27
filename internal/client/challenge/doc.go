// Package challenge obtains anti-abuse (Cloudflare Turnstile) tokens for the
// auth flows.
//
// A Provider has one capability: produce a token for a named action. The
// auth service does not know whether the token came from a headless browser
// driving the real widget, a human pasting it, or a fixed test value.
//
// Tokens are single use. Providers that can hand out a token without running
// the widget (a pre-filled field) implement Passive as well.
package challenge
