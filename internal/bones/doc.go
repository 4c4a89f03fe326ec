// Package bones holds the hand bone name registry.
//
// Each side of the body owns a fixed, ordered list of fifteen finger bones
// (thumb, index, middle, ring, little; three segments each) named with the
// MMD skeleton convention. The side of a bone is carried by its name suffix:
// ".L" for LEFT and ".R" for RIGHT.
//
// This package imports nothing internal.
package bones
