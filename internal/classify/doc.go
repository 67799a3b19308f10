// Package classify ranks a page's navigation links against the DEPARTMENT
// and PEOPLE concepts.
package classify
