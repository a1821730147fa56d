// Package propertypath parses property path expressions such as
// "addresses[1].street" and resolves them against an object graph.
//
// Resolution never fails because a link is missing: a nil intermediate or an
// out-of-range index yields Absent instead of an error.
package propertypath
