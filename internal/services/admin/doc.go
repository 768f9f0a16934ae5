// Package admin implements the operator console for the truck marketplace.
//
// It renders server-side pages for listing moderation, auctions and their
// live streams, the home catalog, and read-only feeds, translating browser
// actions into calls against the marketplace REST API on behalf of the
// signed-in operator.
package admin
