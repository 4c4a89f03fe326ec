package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/gesturesnap/internal/host"
	"github.com/roach88/gesturesnap/internal/pose"
)

// KeyframeRow is a stored keyframe with its row id.
type KeyframeRow struct {
	ID string `json:"id"`
	host.Keyframe
}

// LoadScene reads the whole scene into memory.
func (s *Store) LoadScene(ctx context.Context) (*host.Scene, error) {
	scene := host.NewScene()

	var frame int
	var active string
	if err := s.db.QueryRowContext(ctx, `
		SELECT current_frame, active_object FROM scene_state WHERE id = 1
	`).Scan(&frame, &active); err != nil {
		return nil, fmt.Errorf("load scene: state: %w", err)
	}
	scene.SetFrame(frame)

	if err := s.loadObjects(ctx, scene); err != nil {
		return nil, err
	}
	if err := s.loadBones(ctx, scene); err != nil {
		return nil, err
	}

	keys, err := s.ReadKeyframes(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	for _, k := range keys {
		scene.RestoreKeyframe(k.Keyframe)
	}

	if active != "" {
		if err := scene.SetActive(active); err != nil {
			return nil, fmt.Errorf("load scene: %w", err)
		}
	}
	return scene, nil
}

func (s *Store) loadObjects(ctx context.Context, scene *host.Scene) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type, mode FROM objects ORDER BY ord ASC, name ASC
	`)
	if err != nil {
		return fmt.Errorf("load scene: query objects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, typ, mode string
		if err := rows.Scan(&name, &typ, &mode); err != nil {
			return fmt.Errorf("load scene: scan object: %w", err)
		}
		obj, err := scene.AddObject(name, host.ObjectType(typ))
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		if err := obj.SetMode(host.Mode(mode)); err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load scene: iterate objects: %w", err)
	}
	return nil
}

func (s *Store) loadBones(ctx context.Context, scene *host.Scene) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT object, name, location, rotation_quaternion, scale, selected
		FROM pose_bones
		ORDER BY object ASC, ord ASC
	`)
	if err != nil {
		return fmt.Errorf("load scene: query bones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var object, name, locJSON, rotJSON, scaleJSON string
		var selected bool
		if err := rows.Scan(&object, &name, &locJSON, &rotJSON, &scaleJSON, &selected); err != nil {
			return fmt.Errorf("load scene: scan bone: %w", err)
		}
		obj, ok := scene.Object(object)
		if !ok {
			return fmt.Errorf("load scene: bone %q references missing object %q", name, object)
		}
		b, err := obj.AddBone(name)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		snap, err := scanSnapshot(locJSON, rotJSON, scaleJSON)
		if err != nil {
			return fmt.Errorf("load scene: bone %q: %w", name, err)
		}
		pose.Apply(b, snap)
		b.SetSelected(selected)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load scene: iterate bones: %w", err)
	}
	return nil
}

func scanSnapshot(locJSON, rotJSON, scaleJSON string) (pose.Snapshot, error) {
	var snap pose.Snapshot
	loc, err := unmarshalFloats(locJSON, 3)
	if err != nil {
		return snap, err
	}
	rot, err := unmarshalFloats(rotJSON, 4)
	if err != nil {
		return snap, err
	}
	scale, err := unmarshalFloats(scaleJSON, 3)
	if err != nil {
		return snap, err
	}
	copy(snap.Location[:], loc)
	copy(snap.Rotation[:], rot)
	copy(snap.Scale[:], scale)
	return snap, nil
}

// ReadKeyframes returns stored keyframes, optionally filtered by object and
// bone (empty means any), ordered by frame, bone and data path.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ReadKeyframes(ctx context.Context, object, bone string) ([]KeyframeRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, object, bone, data_path, frame, vals
		FROM keyframes
		WHERE (? = '' OR object = ?) AND (? = '' OR bone = ?)
		ORDER BY object ASC, frame ASC, bone ASC,
			CASE data_path
				WHEN 'location' THEN 0
				WHEN 'rotation_quaternion' THEN 1
				WHEN 'scale' THEN 2
				ELSE 3
			END ASC
	`, object, object, bone, bone)
	if err != nil {
		return nil, fmt.Errorf("query keyframes: %w", err)
	}
	defer rows.Close()

	out := []KeyframeRow{}
	for rows.Next() {
		row, err := scanKeyframe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyframes: %w", err)
	}
	return out, nil
}

func scanKeyframe(rows *sql.Rows) (KeyframeRow, error) {
	var row KeyframeRow
	var vals string
	if err := rows.Scan(&row.ID, &row.Object, &row.Bone, &row.DataPath, &row.Frame, &vals); err != nil {
		return row, fmt.Errorf("scan keyframe: %w", err)
	}
	values, err := unmarshalFloats(vals, 0)
	if err != nil {
		return row, fmt.Errorf("scan keyframe: %w", err)
	}
	row.Values = values
	return row, nil
}
