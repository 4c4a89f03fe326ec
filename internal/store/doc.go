// Package store provides SQLite-backed persistence for the standalone host
// scene.
//
// The database holds one scene:
//   - scene_state: current frame and active object (single row)
//   - objects: scene objects with type and editing mode
//   - pose_bones: bone transforms and selection per armature
//   - keyframes: inserted samples, unique per (object, bone, data_path, frame)
//
// A scene is loaded into a host.Scene, mutated in memory by gesture
// operations, and written back with SaveScene in a single transaction.
// Objects and bones are rewritten in full on save; keyframes are upserted so
// sample ids stay stable.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
