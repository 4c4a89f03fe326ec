// Package pose provides bone snapshots, the snapshot codec and the mirror
// transform.
//
// A Snapshot is the plain serializable form of one bone's local transform:
// location, w-first rotation quaternion and scale. Capture and Apply move
// snapshots between live bones and records; Mirror maps a set of snapshots
// recorded for one hand onto the other hand.
//
// Key constraints:
//   - Rotation is expected to be a unit quaternion but is never normalized
//   - Capture, Apply and Mirror never insert keyframes
//   - Mirror returns a new mapping and never mutates its input
package pose
