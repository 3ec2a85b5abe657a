// Package vault provides access to the user's note vault: an ObjectStore
// for filing captured notes and a ContextLoader for the pre-aggregated
// knowledge context attached to queries.
//
// The vault itself is owned by external tooling. This package only writes
// new notes under the inbox prefix and reads the single context file; it
// never rewrites existing vault content.
package vault
