// Package printing contains the Printing bounded context.
// This context describes what a tax invoice looks like on paper, independent
// of how it is rendered, and tracks each PDF export through its server and
// client stages.
package printing
