package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/gesturesnap/internal/host"
)

// SaveScene writes scene in one transaction. Objects and bones replace what
// the database held; keyframes are upserted on (object, bone, data_path,
// frame), keeping the id of an existing sample.
func (s *Store) SaveScene(ctx context.Context, scene *host.Scene) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save scene: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		UPDATE scene_state SET current_frame = ?, active_object = ? WHERE id = 1
	`, scene.CurrentFrame(), scene.ActiveName()); err != nil {
		return fmt.Errorf("save scene: state: %w", err)
	}

	// Cascades to pose_bones
	if _, err := tx.ExecContext(ctx, `DELETE FROM objects`); err != nil {
		return fmt.Errorf("save scene: clear objects: %w", err)
	}

	for i, obj := range scene.Objects() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO objects (name, ord, type, mode) VALUES (?, ?, ?, ?)
		`, obj.Name(), i, string(obj.Type()), string(obj.Mode())); err != nil {
			return fmt.Errorf("save scene: object %q: %w", obj.Name(), err)
		}
		for j, pb := range obj.PoseBones() {
			if err := writeBone(ctx, tx, obj.Name(), j, pb); err != nil {
				return err
			}
		}
	}

	for _, k := range scene.Keyframes() {
		if err := writeKeyframe(ctx, tx, k); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save scene: commit: %w", err)
	}
	return nil
}

func writeBone(ctx context.Context, tx *sql.Tx, object string, ord int, pb host.PoseBone) error {
	loc := pb.Location()
	rot := pb.RotationQuaternion()
	scale := pb.Scale()

	locJSON, err := marshalFloats(loc[:])
	if err != nil {
		return fmt.Errorf("save scene: bone %q: %w", pb.Name(), err)
	}
	rotJSON, err := marshalFloats(rot[:])
	if err != nil {
		return fmt.Errorf("save scene: bone %q: %w", pb.Name(), err)
	}
	scaleJSON, err := marshalFloats(scale[:])
	if err != nil {
		return fmt.Errorf("save scene: bone %q: %w", pb.Name(), err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pose_bones
		(object, name, ord, location, rotation_quaternion, scale, selected)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, object, pb.Name(), ord, locJSON, rotJSON, scaleJSON, pb.Selected())
	if err != nil {
		return fmt.Errorf("save scene: bone %q: %w", pb.Name(), err)
	}
	return nil
}

func writeKeyframe(ctx context.Context, tx *sql.Tx, k host.Keyframe) error {
	vals, err := marshalFloats(k.Values)
	if err != nil {
		return fmt.Errorf("save scene: keyframe %s/%s: %w", k.Bone, k.DataPath, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO keyframes (id, object, bone, data_path, frame, vals)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(object, bone, data_path, frame) DO UPDATE SET vals = excluded.vals
	`, uuid.NewString(), k.Object, k.Bone, k.DataPath, k.Frame, vals)
	if err != nil {
		return fmt.Errorf("save scene: keyframe %s/%s: %w", k.Bone, k.DataPath, err)
	}
	return nil
}

// Reset empties the database: objects, bones and keyframes are removed and
// the timeline returns to frame 1 with no active object.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reset scene: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM keyframes`,
		`DELETE FROM objects`,
		`UPDATE scene_state SET current_frame = 1, active_object = '' WHERE id = 1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset scene: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset scene: commit: %w", err)
	}
	return nil
}
