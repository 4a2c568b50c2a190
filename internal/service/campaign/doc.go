// Package campaign implements campaign lifecycle management.
//
// The service layer contains all business logic for creating, editing,
// scheduling, and sending campaigns. It depends on the repository interface
// defined in this package and never imports from the API layer.
//
// The repository implementation lives in repository/postgres/.
package campaign
