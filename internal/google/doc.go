// Package google provides OAuth2 authentication and token management for the
// Google Calendar and Gmail APIs.
//
// Tokens are stored per account as JSON files under the user cache directory
// (for example ~/.cache/inboxmeet/google-work.token). The TokenProvider
// interface lets tests and other token sources be plugged in.
package google
