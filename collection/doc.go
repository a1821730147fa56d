// Package collection provides an observable ordered sequence.
//
// A List reports every structural mutation as a Change describing which
// positions were affected, so that watchers of a single index can decide
// whether they need to re-resolve.
package collection
