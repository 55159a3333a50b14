package particleart

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/particleart/sim"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// createWindowState opens a window with a current OpenGL 4.1 core context.
// The calling goroutine stays locked to its OS thread; all later GL calls
// must come from it.
func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}, nil
}

func (s *WindowState) destroy() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}

const pointVertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in float aSize;
layout(location = 2) in vec4 aColor;

uniform mat4 uProjection;
uniform mat4 uView;
uniform float uPointScale;

out vec4 vColor;

void main() {
	vec4 eye = uView * vec4(aPos, 1.0);
	gl_Position = uProjection * eye;
	gl_PointSize = max(1.0, aSize * uPointScale / -eye.z);
	vColor = aColor;
}
`

const pointFragmentShader = `#version 410 core
in vec4 vColor;
out vec4 fragColor;

void main() {
	vec2 c = gl_PointCoord * 2.0 - 1.0;
	float r2 = dot(c, c);
	if (r2 > 1.0) {
		discard;
	}
	fragColor = vec4(vColor.rgb, vColor.a * (1.0 - r2));
}
`

const (
	cameraDistance = 8
	cameraFov      = 60
)

type GpuState struct {
	program     uint32
	vao         uint32
	vbo         uint32
	uProjection int32
	uView       int32
	uPointScale int32
	// capacity of vbo in instances
	capacity int
}

func createGpuState() (*GpuState, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to init gl: %w", err)
	}

	vs, err := compileShader(pointVertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	fs, err := compileShader(pointFragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return nil, err
	}
	program, err := linkProgram(vs, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	if err != nil {
		return nil, err
	}

	g := &GpuState{
		program:     program,
		uProjection: gl.GetUniformLocation(program, gl.Str("uProjection\x00")),
		uView:       gl.GetUniformLocation(program, gl.Str("uView\x00")),
		uPointScale: gl.GetUniformLocation(program, gl.Str("uPointScale\x00")),
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)

	stride := int32(unsafe.Sizeof(sim.Instance{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 1, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 4*4)
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)

	// Additive, unsorted points.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	gl.DepthMask(false)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0, 0, 0, 1)

	return g, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logMsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logMsg))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %s", strings.TrimRight(logMsg, "\x00"))
	}
	return shader, nil
}

func linkProgram(vs, fs uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logMsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logMsg))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %s", strings.TrimRight(logMsg, "\x00"))
	}
	return program, nil
}

// upload replaces the vertex buffer contents, growing it when needed.
func (g *GpuState) upload(instances []sim.Instance) {
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(instances) == 0 {
		return
	}
	size := len(instances) * int(unsafe.Sizeof(sim.Instance{}))
	if len(instances) > g.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(instances), gl.DYNAMIC_DRAW)
		g.capacity = len(instances)
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(instances))
}

// cameraMatrices returns the projection and view for a framebuffer of the
// given size. The camera sits on +Z looking at the origin.
func cameraMatrices(width, height int) (proj, view mgl32.Mat4) {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	proj = mgl32.Perspective(mgl32.DegToRad(cameraFov), aspect, 0.1, 1000)
	view = mgl32.LookAtV(mgl32.Vec3{0, 0, cameraDistance}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return proj, view
}

func (g *GpuState) draw(instances []sim.Instance, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if len(instances) == 0 {
		return
	}

	g.upload(instances)
	proj, view := cameraMatrices(width, height)

	gl.UseProgram(g.program)
	gl.UniformMatrix4fv(g.uProjection, 1, false, &proj[0])
	gl.UniformMatrix4fv(g.uView, 1, false, &view[0])
	gl.Uniform1f(g.uPointScale, float32(height)/2)

	gl.BindVertexArray(g.vao)
	gl.DrawArrays(gl.POINTS, 0, int32(len(instances)))
	gl.BindVertexArray(0)
}

func (g *GpuState) release() {
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteProgram(g.program)
}
