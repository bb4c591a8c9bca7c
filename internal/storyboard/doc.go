// Package storyboard writes the demo storyboard descriptor and, when an
// encoder is installed, a placeholder clip next to it.
//
// Rendering is best effort: a missing or failing encoder leaves the
// storyboard on its own and is not an error.
package storyboard
