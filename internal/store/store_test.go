package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/host"
	"github.com/roach88/gesturesnap/internal/pose"
	"github.com/roach88/gesturesnap/internal/testutil"
)

// createTestStore opens a file-backed store in a temp dir.
func createTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	_, path := createTestStore(t)

	_, err := os.Stat(path)
	assert.NoError(t, err, "database file should exist")
}

func TestOpen_Pragmas(t *testing.T) {
	s, _ := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "open iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"scene_state", "objects", "pose_bones", "keyframes"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}
}

func TestLoadScene_Empty(t *testing.T) {
	s, _ := createTestStore(t)

	scene, err := s.LoadScene(context.Background())

	require.NoError(t, err)
	assert.Nil(t, scene.ActiveObject())
	assert.Equal(t, 1, scene.CurrentFrame())
	assert.Empty(t, scene.Objects())
	assert.Empty(t, scene.Keyframes())
}

func TestSaveLoadScene_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t)

	scene := testutil.HandScene(bones.Left, bones.Right)
	_, err := scene.AddObject("Body", host.ObjectMesh)
	require.NoError(t, err)
	obj := testutil.Armature(scene)
	require.NoError(t, obj.SetMode(host.ModePose))
	posed := testutil.PoseHand(obj, bones.Right, 1.5)
	thumb, _ := obj.Bone("親指０.R")
	thumb.SetSelected(true)
	scene.SetFrame(42)
	require.NoError(t, thumb.InsertKeyframe(host.PathRotation, 42))

	require.NoError(t, s.SaveScene(ctx, scene))
	loaded, err := s.LoadScene(ctx)
	require.NoError(t, err)

	assert.Equal(t, 42, loaded.CurrentFrame())
	require.NotNil(t, loaded.ActiveObject())
	assert.Equal(t, testutil.ArmatureName, loaded.ActiveObject().Name())
	assert.Equal(t, host.ModePose, loaded.ActiveObject().Mode())

	var names []string
	for _, o := range loaded.Objects() {
		names = append(names, o.Name())
	}
	assert.Equal(t, []string{testutil.ArmatureName, "Body"}, names)

	lobj := testutil.Armature(loaded)
	assert.Len(t, lobj.PoseBones(), len(obj.PoseBones()))
	assert.Equal(t, posed, testutil.CaptureHand(lobj, bones.Right))
	for _, snap := range testutil.CaptureHand(lobj, bones.Left) {
		assert.Equal(t, pose.Rest(), snap)
	}
	assert.Equal(t, []string{"親指０.R"}, lobj.SelectedBones())
	assert.Equal(t, scene.Keyframes(), loaded.Keyframes())
}

func TestSaveScene_ReplacesObjects(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t)

	first := host.NewScene()
	_, err := first.AddObject("Old", host.ObjectMesh)
	require.NoError(t, err)
	require.NoError(t, s.SaveScene(ctx, first))

	second := testutil.HandScene(bones.Left)
	require.NoError(t, s.SaveScene(ctx, second))

	loaded, err := s.LoadScene(ctx)
	require.NoError(t, err)
	_, ok := loaded.Object("Old")
	assert.False(t, ok)
	_, ok = loaded.Object(testutil.ArmatureName)
	assert.True(t, ok)
}

func TestSaveScene_KeyframeUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t)
	scene := testutil.HandScene(bones.Left)
	b, _ := testutil.Armature(scene).Bone("親指０.L")

	b.SetLocation(pose.Vec3{1, 0, 0})
	require.NoError(t, b.InsertKeyframe(host.PathLocation, 5))
	require.NoError(t, s.SaveScene(ctx, scene))
	rows, err := s.ReadKeyframes(ctx, "", "親指０.L")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	firstID := rows[0].ID
	assert.NotEmpty(t, firstID)

	b.SetLocation(pose.Vec3{2, 0, 0})
	require.NoError(t, b.InsertKeyframe(host.PathLocation, 5))
	require.NoError(t, s.SaveScene(ctx, scene))

	rows, err = s.ReadKeyframes(ctx, "", "親指０.L")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, firstID, rows[0].ID)
	assert.Equal(t, []float64{2, 0, 0}, rows[0].Values)
}

func TestReadKeyframes_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t)
	scene := testutil.HandScene(bones.Left)
	obj := testutil.Armature(scene)
	for _, frame := range []int{10, 1} {
		for _, name := range []string{"人指１.L", "親指０.L"} {
			b, _ := obj.Bone(name)
			for _, p := range host.DataPaths {
				require.NoError(t, b.InsertKeyframe(p, frame))
			}
		}
	}
	require.NoError(t, s.SaveScene(ctx, scene))

	all, err := s.ReadKeyframes(ctx, testutil.ArmatureName, "")
	require.NoError(t, err)
	require.Len(t, all, 12)
	assert.Equal(t, 1, all[0].Frame)
	assert.Equal(t, host.PathLocation, all[0].DataPath)
	assert.Equal(t, host.PathRotation, all[1].DataPath)
	assert.Equal(t, host.PathScale, all[2].DataPath)
	assert.Equal(t, 10, all[11].Frame)

	one, err := s.ReadKeyframes(ctx, "", "親指０.L")
	require.NoError(t, err)
	assert.Len(t, one, 6)

	none, err := s.ReadKeyframes(ctx, "Nope", "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestInMemoryStore(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveScene(context.Background(), testutil.HandScene(bones.Right)))
	scene, err := s.LoadScene(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, scene.ActiveObject())
}

func TestUnmarshalFloats(t *testing.T) {
	v, err := unmarshalFloats("[1,2.5,-3]", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, -3}, v)

	_, err = unmarshalFloats("[1,2]", 3)
	require.Error(t, err)

	_, err = unmarshalFloats("nope", 0)
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t)
	scene := testutil.HandScene(bones.Left)
	scene.SetFrame(40)
	b, _ := testutil.Armature(scene).Bone("親指０.L")
	require.NoError(t, b.InsertKeyframe(host.PathScale, 40))
	require.NoError(t, s.SaveScene(ctx, scene))

	require.NoError(t, s.Reset(ctx))

	loaded, err := s.LoadScene(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Objects())
	assert.Empty(t, loaded.Keyframes())
	assert.Equal(t, 1, loaded.CurrentFrame())
	assert.Nil(t, loaded.ActiveObject())
}
