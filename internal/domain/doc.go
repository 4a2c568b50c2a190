// Package domain holds the core entity types shared across services:
// campaigns and contacts as the console sees them. Aggregate analytics
// rows are NOT domain entities; they are transient backend responses
// owned by the analytics package.
package domain
