package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/host"
	"github.com/roach88/gesturesnap/internal/pose"
	"github.com/roach88/gesturesnap/internal/store"
)

// NewSceneCommand creates the scene command group, which edits the scene
// database that record and apply work against.
func NewSceneCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Inspect and edit the scene database",
		Long: `The scene database stands in for the 3D host: objects, pose bones,
the current frame and inserted keyframes.

Examples:
  gesturesnap scene init --armature Miku --mesh Body
  gesturesnap scene pose 人指１.R --rot 0.9,0.1,0.2,0.3
  gesturesnap scene frame 24
  gesturesnap scene keys --bone 人指１.L`,
	}

	cmd.AddCommand(newSceneInitCommand(rootOpts))
	cmd.AddCommand(newScenePoseCommand(rootOpts))
	cmd.AddCommand(newSceneFrameCommand(rootOpts))
	cmd.AddCommand(newSceneActivateCommand(rootOpts))
	cmd.AddCommand(newSceneKeysCommand(rootOpts))

	return cmd
}

// SceneInitOptions holds flags for scene init.
type SceneInitOptions struct {
	*RootOptions
	Armature string
	Mesh     string
	Hands    []string
}

type sceneInitOutput struct {
	Armature string   `json:"armature"`
	Bones    int      `json:"bones"`
	Objects  []string `json:"objects"`
}

func (o sceneInitOutput) Text() string {
	return fmt.Sprintf("Initialized scene: %s (%d bones)\n", o.Armature, o.Bones)
}

func newSceneInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SceneInitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Replace the scene with an armature carrying the finger bones",
		Long: `Reset the scene database to a single active armature in object mode
whose bones are the finger bones of the given hands, all at rest. An optional
mesh object is added after it. Existing keyframes are removed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSceneInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Armature, "armature", "Armature", "armature object name")
	cmd.Flags().StringVar(&opts.Mesh, "mesh", "", "also add a mesh object with this name")
	cmd.Flags().StringSliceVar(&opts.Hands, "hands", []string{string(bones.Left), string(bones.Right)}, "hands whose finger bones are created")

	return cmd
}

func runSceneInit(cmd *cobra.Command, opts *SceneInitOptions) error {
	formatter := opts.formatter(cmd)

	scene, count, err := buildScene(opts.Armature, opts.Mesh, opts.Hands)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
	}

	ctx := commandContext(cmd)
	st, err := store.Open(opts.Scene)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
	}
	defer st.Close()

	if err := st.Reset(ctx); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
	}
	if err := st.SaveScene(ctx, scene); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
	}
	opts.logger().Info("scene initialized", "path", opts.Scene, "armature", opts.Armature, "bones", count)

	out := sceneInitOutput{Armature: opts.Armature, Bones: count}
	for _, obj := range scene.Objects() {
		out.Objects = append(out.Objects, obj.Name())
	}
	return formatter.Success(out)
}

// buildScene creates the scene for scene init.
func buildScene(armature, mesh string, hands []string) (*host.Scene, int, error) {
	scene := host.NewScene()
	obj, err := scene.AddObject(armature, host.ObjectArmature)
	if err != nil {
		return nil, 0, err
	}
	count := 0
	for _, h := range hands {
		side, err := bones.ParseSide(h)
		if err != nil {
			return nil, 0, err
		}
		for _, name := range bones.For(side) {
			if _, err := obj.AddBone(name); err != nil {
				return nil, 0, err
			}
			count++
		}
	}
	if mesh != "" {
		if _, err := scene.AddObject(mesh, host.ObjectMesh); err != nil {
			return nil, 0, err
		}
	}
	if err := scene.SetActive(armature); err != nil {
		return nil, 0, err
	}
	return scene, count, nil
}

// ScenePoseOptions holds flags for scene pose.
type ScenePoseOptions struct {
	*RootOptions
	Object   string
	Location string
	Rotation string
	Scale    string
}

func newScenePoseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenePoseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pose <bone>",
		Short: "Set a pose bone's location, rotation or scale",
		Long: `Set values of one pose bone on the active object (or --object).
Values are comma-separated: --loc x,y,z --rot w,x,y,z --scale x,y,z.
Omitted values are left unchanged.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenePose(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Object, "object", "", "object name (default: active object)")
	cmd.Flags().StringVar(&opts.Location, "loc", "", "location x,y,z")
	cmd.Flags().StringVar(&opts.Rotation, "rot", "", "rotation quaternion w,x,y,z")
	cmd.Flags().StringVar(&opts.Scale, "scale", "", "scale x,y,z")

	return cmd
}

func runScenePose(cmd *cobra.Command, opts *ScenePoseOptions, boneName string) error {
	formatter := opts.formatter(cmd)

	loc, err := parseFloats("loc", opts.Location, 3)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
	}
	rot, err := parseFloats("rot", opts.Rotation, 4)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
	}
	scale, err := parseFloats("scale", opts.Scale, 3)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
	}

	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
	}
	defer sess.Close()

	name := opts.Object
	if name == "" {
		name = sess.scene.ActiveName()
	}
	obj, ok := sess.scene.Object(name)
	if !ok {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("object not found: %q", name), nil)
	}
	b, ok := obj.Bone(boneName)
	if !ok {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("bone not found on %s: %s", name, boneName), nil)
	}

	if loc != nil {
		b.SetLocation(pose.Vec3(loc))
	}
	if rot != nil {
		b.SetRotationQuaternion(pose.Quat(rot))
	}
	if scale != nil {
		b.SetScale(pose.Vec3(scale))
	}
	if err := sess.save(ctx); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
	}

	snap := pose.Capture(b)
	return formatter.Success(bonePoseOutput{Object: name, Bone: boneName, Snapshot: snap})
}

type bonePoseOutput struct {
	Object string `json:"object"`
	Bone   string `json:"bone"`
	pose.Snapshot
}

func (o bonePoseOutput) Text() string {
	return fmt.Sprintf("%s: location=%v rotation_quaternion=%v scale=%v\n", o.Bone, o.Location, o.Rotation, o.Scale)
}

// parseFloats parses a comma-separated vector of exactly n numbers. An empty
// string yields nil.
func parseFloats(flag, s string, n int) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("--%s needs %d comma-separated numbers, got %d", flag, n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", flag, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("--%s: value %q is not a finite number", flag, strings.TrimSpace(p))
		}
		out[i] = v
	}
	return out, nil
}

type frameOutput struct {
	Frame int `json:"frame"`
}

func (o frameOutput) Text() string {
	return fmt.Sprintf("Frame: %d\n", o.Frame)
}

func newSceneFrameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "frame [n]",
		Short:         "Show or set the current frame",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			frame := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, fmt.Sprintf("invalid frame %q", args[0]), nil)
				}
				frame = n
			}

			ctx := commandContext(cmd)
			sess, err := openSession(ctx, rootOpts)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
			}
			defer sess.Close()

			if len(args) == 1 {
				sess.scene.SetFrame(frame)
				if err := sess.save(ctx); err != nil {
					return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
				}
			}
			return formatter.Success(frameOutput{Frame: sess.scene.CurrentFrame()})
		},
	}
}

type activeOutput struct {
	Active string `json:"active"`
}

func (o activeOutput) Text() string {
	if o.Active == "" {
		return "No active object\n"
	}
	return fmt.Sprintf("Active object: %s\n", o.Active)
}

func newSceneActivateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate [object]",
		Short: "Make an object active, or clear the active object",
		Long: `Make the named object the active object. With no argument the active
object is cleared.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			ctx := commandContext(cmd)
			sess, err := openSession(ctx, rootOpts)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
			}
			defer sess.Close()

			if err := sess.scene.SetActive(name); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
			}
			if err := sess.save(ctx); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
			}
			return formatter.Success(activeOutput{Active: name})
		},
	}
}

// SceneKeysOptions holds flags for scene keys.
type SceneKeysOptions struct {
	*RootOptions
	Object string
	Bone   string
}

type keysOutput struct {
	Keyframes []store.KeyframeRow `json:"keyframes"`
}

func (o keysOutput) Text() string {
	if len(o.Keyframes) == 0 {
		return "No keyframes.\n"
	}
	var b strings.Builder
	for _, k := range o.Keyframes {
		fmt.Fprintf(&b, "%4d  %s  %-20s %v\n", k.Frame, k.Bone, k.DataPath, k.Values)
	}
	return b.String()
}

func newSceneKeysCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SceneKeysOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "keys",
		Short:         "List inserted keyframes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)

			st, err := store.Open(opts.Scene)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
			}
			defer st.Close()

			rows, err := st.ReadKeyframes(commandContext(cmd), opts.Object, opts.Bone)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
			}
			formatter.VerboseLog("Found %d keyframe(s)", len(rows))
			return formatter.Success(keysOutput{Keyframes: rows})
		},
	}

	cmd.Flags().StringVar(&opts.Object, "object", "", "only keyframes of this object")
	cmd.Flags().StringVar(&opts.Bone, "bone", "", "only keyframes of this bone")

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
