// Package pattern learns which URLs of a people branch lead to profiles.
//
// Every branch that enters PeopleScan gets a BranchProfile keyed by its
// original start. The first confirmed profiles of a branch are accepted
// unconditionally and kept as samples; once the learning threshold is
// reached a Pattern of accepted hosts and parent-path prefixes is compiled
// from them, and later pages of the branch are only accepted when they
// match it.
package pattern
