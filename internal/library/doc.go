// Package library provides the JSON-backed gesture store.
//
// A Library owns the single writable copy of the gesture mapping. It is
// loaded once when opened and rewritten in full on every mutation; the file
// on disk is a mirror of the cache, never diffed.
//
// # File Format
//
//	{
//	  "<gesture>": {
//	    "hand_side": "LEFT" | "RIGHT",
//	    "bones_data": {
//	      "<bone>": {
//	        "location": [x, y, z],
//	        "rotation_quaternion": [w, x, y, z],
//	        "scale": [sx, sy, sz]
//	      }
//	    }
//	  }
//	}
//
// The file is UTF-8 with non-ASCII text written literally and two-space
// indentation. Gestures keep the order in which they were first stored; bone
// keys are sorted.
//
// # Load Failures
//
// A missing file is an empty library. A file that cannot be parsed is also
// treated as empty, but the failure is logged at WARN and kept on LoadErr so
// front ends can surface it. The next successful save overwrites the file.
package library
