// Package image tracks the inline images a message template refers to while
// it renders. Each distinct source becomes one Resource with a content id the
// HTML body can use in a cid: URL.
package image
