// Package contact implements contact list management.
//
// The service layer validates and coordinates contact mutations. Subscription
// state changes driven by tracking events (bounces, complaints) arrive from
// the managed backend; the console only performs explicit user actions.
package contact
