package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/polyfloyd/meshvis"
	"github.com/polyfloyd/meshvis/glbackend"
	"github.com/polyfloyd/meshvis/shader"
)

var flagNames = map[string]meshvis.Flag{
	"Wireframe":                     meshvis.FlagWireframe,
	"NoGeometryShader":              meshvis.FlagNoGeometryShader,
	"ObjectId":                      meshvis.FlagObjectId,
	"InstancedObjectId":             meshvis.FlagInstancedObjectId,
	"ObjectIdTexture":               meshvis.FlagObjectIdTexture,
	"VertexId":                      meshvis.FlagVertexId,
	"PrimitiveId":                   meshvis.FlagPrimitiveId,
	"PrimitiveIdFromVertexId":       meshvis.FlagPrimitiveIdFromVertexId,
	"TangentDirection":              meshvis.FlagTangentDirection,
	"BitangentFromTangentDirection": meshvis.FlagBitangentFromTangentDirection,
	"BitangentDirection":            meshvis.FlagBitangentDirection,
	"NormalDirection":               meshvis.FlagNormalDirection,
	"TextureTransformation":         meshvis.FlagTextureTransformation,
	"TextureArrays":                 meshvis.FlagTextureArrays,
	"InstancedTransformation":       meshvis.FlagInstancedTransformation,
	"InstancedTextureOffset":        meshvis.FlagInstancedTextureOffset,
	"UniformBuffers":                meshvis.FlagUniformBuffers,
	"ShaderStorageBuffers":          meshvis.FlagShaderStorageBuffers,
	"MultiDraw":                     meshvis.FlagMultiDraw,
	"DynamicPerVertexJointCount":    meshvis.FlagDynamicPerVertexJointCount,
}

var versionNames = map[string]meshvis.Version{
	"210":   meshvis.GL210,
	"300":   meshvis.GL300,
	"310":   meshvis.GL310,
	"320":   meshvis.GL320,
	"es200": meshvis.GLES200,
	"es300": meshvis.GLES300,
	"es310": meshvis.GLES310,
	"es320": meshvis.GLES320,
}

func main() {
	log.SetOutput(os.Stderr)
	// OpenGL contexts are bound to threads.
	runtime.LockOSThread()

	dim := flag.Uint("d", 3, "Dimensionality of the visualized meshes, 2 or 3")
	flagList := flag.String("flags", "Wireframe", "Comma separated feature flags, e.g. Wireframe,ObjectId. Use -list-flags for the full set")
	listFlags := flag.Bool("list-flags", false, "List all known feature flags and exit")
	jointCount := flag.Uint("joint-count", 0, "Total number of skinning joints")
	perVertexJoints := flag.Uint("per-vertex-joint-count", 0, "Joints consumed through the primary attribute pair")
	secondaryJoints := flag.Uint("secondary-joint-count", 0, "Joints consumed through the secondary attribute pair")
	materialCount := flag.Uint("material-count", 1, "Material buffer capacity with uniform buffers enabled")
	drawCount := flag.Uint("draw-count", 1, "Draw buffer capacity with uniform buffers enabled")
	target := flag.String("target", "gl", "Capability profile: gl, gles or webgl")
	versionStr := flag.String("version", "", "Context version for the profile, e.g. 320 or es310. Defaults to the newest of the target")
	var extraExts arrayFlags
	flag.Var(&extraExts, "ext", "Extension to add to the capability profile, e.g. GL_ARB_explicit_uniform_location. May be repeated")
	angle := flag.Bool("angle", false, "Pretend the context is the ANGLE translator")
	dump := flag.Bool("dump", false, "Print the assembled sources of every stage")
	defines := flag.Bool("defines", false, "Print only the injected preprocessor defines per stage")
	layout := flag.Bool("layout", false, "Print the buffer, texture and attribute layout for the configuration")
	compile := flag.Bool("compile", false, "Build the program on a live offscreen context")
	watchDir := flag.String("w", "", "Watch a directory with GLSL override files and re-assemble on change")
	var overrides arrayFlags
	flag.Var(&overrides, "override", "Replace a GLSL resource, name=text or name=@file, e.g. compatibility.glsl=@alt.glsl. May be repeated")
	flag.Parse()

	if *listFlags {
		names := make([]string, 0, len(flagNames))
		for name := range flagNames {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	var d meshvis.Dim
	switch *dim {
	case 2:
		d = meshvis.Dim2D
	case 3:
		d = meshvis.Dim3D
	default:
		log.Fatalf("-d must be 2 or 3, got %d", *dim)
	}

	var flags meshvis.Flags
	for _, name := range strings.Split(*flagList, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, ok := flagNames[name]
		if !ok {
			log.Fatalf("unknown flag %q, use -list-flags for the full set", name)
		}
		flags |= meshvis.Flags(f)
	}

	cfg := meshvis.NewConfig(flags)
	cfg.MaterialCount = *materialCount
	cfg.DrawCount = *drawCount
	if *jointCount != 0 || *perVertexJoints != 0 || *secondaryJoints != 0 {
		cfg = cfg.WithJointCount(*jointCount, *perVertexJoints, *secondaryJoints)
	}

	caps, err := buildCaps(*target, *versionStr, extraExts, *angle)
	if err != nil {
		log.Fatalf("%v", err)
	}

	env := shader.Env{Caps: caps}
	if *watchDir != "" && len(overrides) > 0 {
		log.Fatalf("-w and -override are mutually exclusive")
	}
	if *watchDir != "" {
		env.Resources = shader.DirResources{Dir: *watchDir}
	}
	if len(overrides) > 0 {
		m := shader.MapResources{}
		for _, o := range overrides {
			eq := strings.IndexByte(o, '=')
			if eq < 0 {
				log.Fatalf("-override %q is not of the form name=text or name=@file", o)
			}
			name, val := o[:eq], o[eq+1:]
			if strings.HasPrefix(val, "@") {
				m[name] = shader.SourceFile{Filename: val[1:]}
			} else {
				m[name] = shader.SourceBuf(val)
			}
		}
		env.Resources = m
	}

	run := func(env shader.Env) error {
		a, err := shader.Assemble(cfg, d, env)
		if err != nil {
			return err
		}
		switch {
		case *dump:
			dumpAssembly(a)
		case *defines:
			dumpDefines(a)
		case *layout:
			dumpLayout(cfg, d)
		}
		if *compile {
			return compileLive(cfg, d, env.Resources)
		}
		if !*dump && !*defines && !*layout {
			log.Printf("config %v resolves to %v, %d vertex, %d fragment, %d geometry source fragments",
				cfg.Flags, a.Version, len(a.Vertex), len(a.Fragment), len(a.Geometry))
		}
		return nil
	}

	if err := run(env); err != nil {
		log.Fatalf("%v", err)
	}
	if *watchDir == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(*watchDir); err != nil {
		log.Fatalf("watching %s: %v", *watchDir, err)
	}
	log.Printf("watching %s", *watchDir)
	for {
		select {
		case ev := <-watcher.Events:
			if !strings.HasSuffix(ev.Name, ".glsl") && !strings.HasSuffix(ev.Name, ".vert") &&
				!strings.HasSuffix(ev.Name, ".frag") && !strings.HasSuffix(ev.Name, ".geom") {
				continue
			}
			log.Printf("%s changed", ev.Name)
			if err := run(env); err != nil {
				log.Printf("%v", err)
			}
		case err := <-watcher.Errors:
			log.Printf("watch error: %v", err)
		}
	}
}

func buildCaps(target, versionStr string, extNames []string, angle bool) (meshvis.Caps, error) {
	var t meshvis.Target
	switch target {
	case "gl":
		t = meshvis.TargetGL
	case "gles":
		t = meshvis.TargetGLES
	case "webgl":
		t = meshvis.TargetWebGL
	default:
		return nil, fmt.Errorf("unknown target %q, must be gl, gles or webgl", target)
	}

	version := meshvis.VersionPreference(t)[0]
	if versionStr != "" {
		v, ok := versionNames[versionStr]
		if !ok {
			return nil, fmt.Errorf("unknown version %q", versionStr)
		}
		version = v
	}

	var exts []meshvis.Extension
	for _, name := range extNames {
		found := false
		for e := meshvis.ExtARBExplicitAttribLocation; e <= meshvis.ExtWEBGLMultiDraw; e++ {
			if e.String() == name {
				exts = append(exts, e)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown extension %q", name)
		}
	}

	var caps meshvis.StaticCaps
	if t == meshvis.TargetGL {
		caps = meshvis.DesktopCaps(version, exts...)
	} else {
		caps = meshvis.ESCaps(t, version, exts...)
	}
	if angle {
		caps.Driver |= meshvis.DriverAngle
	}
	return caps, nil
}

func dumpAssembly(a *shader.Assembly) {
	stages := []struct {
		name    string
		sources []string
	}{
		{"vertex", a.Vertex},
		{"fragment", a.Fragment},
		{"geometry", a.Geometry},
	}
	for _, st := range stages {
		if st.sources == nil {
			continue
		}
		fmt.Printf("//// %s stage, %v\n", st.name, a.Version)
		for _, src := range st.sources {
			fmt.Print(src)
			if !strings.HasSuffix(src, "\n") {
				fmt.Println()
			}
		}
		fmt.Println()
	}
}

func dumpDefines(a *shader.Assembly) {
	stages := []struct {
		name    string
		sources []string
	}{
		{"vertex", a.Vertex},
		{"fragment", a.Fragment},
		{"geometry", a.Geometry},
	}
	for _, st := range stages {
		if st.sources == nil {
			continue
		}
		fmt.Printf("%s:\n", st.name)
		for _, src := range st.sources {
			for _, line := range strings.Split(src, "\n") {
				if strings.HasPrefix(line, "#define ") || strings.HasPrefix(line, "#version ") {
					fmt.Printf("  %s\n", line)
				}
			}
		}
	}
}

func dumpLayout(cfg meshvis.Config, d meshvis.Dim) {
	f := cfg.Flags
	if f.Has(meshvis.FlagUniformBuffers) {
		fmt.Println("buffer bindings:")
		if d == meshvis.Dim2D {
			fmt.Printf("  TransformationProjection %d\n", shader.TransformationProjectionBufferBinding)
		} else {
			fmt.Printf("  Projection               %d\n", shader.ProjectionBufferBinding)
			fmt.Printf("  Transformation           %d\n", shader.TransformationBufferBinding)
		}
		fmt.Printf("  Draw                     %d\n", shader.DrawBufferBinding)
		if f.Has(meshvis.FlagTextureTransformation) {
			fmt.Printf("  TextureTransformation    %d\n", shader.TextureTransformationBufferBinding)
		}
		fmt.Printf("  Material                 %d\n", shader.MaterialBufferBinding)
		if cfg.JointCount != 0 || f.Has(meshvis.FlagShaderStorageBuffers) {
			fmt.Printf("  Joint                    %d\n", shader.JointBufferBinding)
		}
	}

	fmt.Println("texture units:")
	if f.HasAny(meshvis.FlagObjectId, meshvis.FlagVertexId, meshvis.FlagPrimitiveId) {
		fmt.Printf("  colorMapTexture     %d\n", shader.ColorMapTextureUnit)
	}
	if f.Has(meshvis.FlagObjectIdTexture) {
		fmt.Printf("  objectIdTextureData %d\n", shader.ObjectIdTextureUnit)
	}

	fmt.Println("attributes:")
	fmt.Printf("  position %d\n", shader.AttrPosition)
	if f.Has(meshvis.FlagObjectIdTexture) {
		fmt.Printf("  textureCoordinates %d\n", shader.AttrTextureCoordinates)
	}
	if f.Has(meshvis.FlagInstancedObjectId) {
		fmt.Printf("  instanceObjectId %d\n", shader.AttrObjectId)
	}
	if d == meshvis.Dim3D {
		if f.HasAny(meshvis.FlagTangentDirection, meshvis.FlagBitangentFromTangentDirection) {
			fmt.Printf("  tangent %d\n", shader.AttrTangent)
		}
		if f.Has(meshvis.FlagBitangentDirection) {
			fmt.Printf("  bitangent %d\n", shader.AttrBitangent)
		}
		if f.HasAny(meshvis.FlagNormalDirection, meshvis.FlagBitangentFromTangentDirection) {
			fmt.Printf("  normal %d\n", shader.AttrNormal)
		}
	}
	if cfg.PerVertexJointCount != 0 {
		fmt.Printf("  jointIds %d\n  weights %d\n", shader.AttrJointIds, shader.AttrWeights)
	}
	if cfg.SecondaryPerVertexJointCount != 0 {
		fmt.Printf("  secondaryJointIds %d\n  secondaryWeights %d\n", shader.AttrSecondaryJointIds, shader.AttrSecondaryWeights)
	}
	if f.Has(meshvis.FlagInstancedTransformation) {
		fmt.Printf("  instancedTransformationMatrix %d\n", shader.AttrTransformationMatrix)
	}
	if f.Has(meshvis.FlagInstancedTextureOffset) {
		fmt.Printf("  instancedTextureOffset %d\n", shader.AttrTextureOffset)
	}
}

func compileLive(cfg meshvis.Config, d meshvis.Dim, res shader.Resources) error {
	ctx, err := glbackend.Offscreen()
	if err != nil {
		return err
	}
	defer ctx.Release()

	debug := glbackend.DebugOutput()
	go func() {
		for m := range debug {
			if !m.Notification() {
				log.Printf("OpenGL %s", m)
			}
		}
	}()

	env := glbackend.NewEnv()
	env.Resources = res
	if d == meshvis.Dim2D {
		p, err := shader.New2D(env, cfg)
		if err != nil {
			return err
		}
		log.Printf("linked 2D program, context %v", p.Version())
		p.Delete()
		return nil
	}
	p, err := shader.New3D(env, cfg)
	if err != nil {
		return err
	}
	log.Printf("linked 3D program, context %v", p.Version())
	p.Delete()
	return nil
}

type arrayFlags []string

func (i *arrayFlags) String() string {
	return strings.Join(*i, ", ")
}

func (i *arrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}
