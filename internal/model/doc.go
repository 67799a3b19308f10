// Package model defines the core data structures shared by the scholarscan
// crawler.
//
// This package contains the following main types:
//   - CrawlTask: An immutable description of one page to fetch and the
//     navigation state it is fetched in
//   - Response: The result of fetching a CrawlTask's URL
//   - PageDigest: The part of a visited page that later pages of the same
//     branch are compared against
//   - ClassifiedCandidate: A link scored against a target concept
//   - ProfileRecord: A structured faculty profile ready to be stored
//
// The models are kept free of behavior that needs network or disk access so
// every other package can import them without cycles.
package model
