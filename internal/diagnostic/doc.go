// Package diagnostic collects structured errors, warnings and notes found
// while validating binding manifests, so that every problem in a file is
// reported at once instead of failing on the first.
package diagnostic
