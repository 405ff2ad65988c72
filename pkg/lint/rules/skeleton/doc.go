// Package skeleton provides rules about the skeleton graph.
//
//   - CS01: Dangling Skeleton Node - edge endpoint not declared in bodyparts
//   - CS02: Duplicate Skeleton Edge - same pair listed twice, in either order
//   - CS03: Self-Loop Edge - edge connecting a body part to itself
//   - CS04: Unconnected Body Part - declared body part that no edge touches
package skeleton
