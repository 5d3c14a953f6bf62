// Package types defines the entity records persisted by jobdesk, the store
// configuration, table file names, the write Result type, and the sentinel
// errors shared by the storage layer and its callers.
package types
