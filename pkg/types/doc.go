// Package types defines the entity records, query and page envelopes,
// configuration, and sentinel errors shared by the admindesk packages.
package types
