//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/flowcanvas/internal/engine"
	"github.com/inamate/flowcanvas/internal/viewport"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(viewport.DefaultOptions())

	// Create the engine API object
	flowEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	flowEngine.Set("loadWorkflow", js.FuncOf(loadWorkflow))
	flowEngine.Set("loadSampleWorkflow", js.FuncOf(loadSampleWorkflow))
	flowEngine.Set("moveNode", js.FuncOf(moveNode))
	flowEngine.Set("mount", js.FuncOf(mount))
	flowEngine.Set("unmount", js.FuncOf(unmount))
	flowEngine.Set("resize", js.FuncOf(resize))
	flowEngine.Set("zoom", js.FuncOf(zoom))
	flowEngine.Set("setZoom", js.FuncOf(setZoom))
	flowEngine.Set("fitToScreen", js.FuncOf(fitToScreen))
	flowEngine.Set("fillScreen", js.FuncOf(fillScreen))
	flowEngine.Set("scrollToPoint", js.FuncOf(scrollToPoint))
	flowEngine.Set("pan", js.FuncOf(pan))
	flowEngine.Set("followFrame", js.FuncOf(followFrame))
	flowEngine.Set("setInteractionsEnabled", js.FuncOf(setInteractionsEnabled))
	flowEngine.Set("setMoveLocked", js.FuncOf(setMoveLocked))
	flowEngine.Set("restoreScrollState", js.FuncOf(restoreScrollState))

	// --- Queries (frontend ← backend) ---
	flowEngine.Set("getViewport", js.FuncOf(getViewport))
	flowEngine.Set("getVisibleFrame", js.FuncOf(getVisibleFrame))
	flowEngine.Set("getScrollState", js.FuncOf(getScrollState))
	flowEngine.Set("screenToCanvas", js.FuncOf(screenToCanvas))
	flowEngine.Set("canvasToScreen", js.FuncOf(canvasToScreen))
	flowEngine.Set("getWorkflow", js.FuncOf(getWorkflow))
	flowEngine.Set("getZoomFactor", js.FuncOf(getZoomFactor))

	// Register on global scope
	js.Global().Set("flowEngine", flowEngine)

	startFrameLoop()

	// Signal that WASM is ready
	js.Global().Set("flowWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// startFrameLoop flushes deferred layout work once per animation frame.
func startFrameLoop() {
	var onFrame js.Func
	onFrame = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		eng.Frame()
		js.Global().Call("requestAnimationFrame", onFrame)
		return nil
	})
	js.Global().Call("requestAnimationFrame", onFrame)
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func result(err error) interface{} {
	if err != nil {
		return fail(err.Error())
	}
	return ok()
}

func floatArg(args []js.Value, i int) float64 {
	if len(args) <= i || args[i].Type() != js.TypeNumber {
		return 0
	}
	return args[i].Float()
}

func boolArg(args []js.Value, i int) bool {
	return len(args) > i && args[i].Truthy()
}

// --- Command Handlers ---

func loadWorkflow(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing workflow JSON")
	}
	return result(eng.LoadWorkflow(args[0].String()))
}

func loadSampleWorkflow(this js.Value, args []js.Value) interface{} {
	workflowID := "wf_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		workflowID = args[0].String()
	}
	return result(eng.LoadSampleWorkflow(workflowID))
}

func moveNode(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return fail("usage: moveNode(id, x, y)")
	}
	return result(eng.MoveNode(args[0].String(), floatArg(args, 1), floatArg(args, 2)))
}

// mount(scrollElement, sizerElement) binds the scroll container.
func mount(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return fail("missing scroll element")
	}
	c := &domContainer{el: args[0], sizer: js.Undefined()}
	if len(args) > 1 {
		c.sizer = args[1]
	}
	eng.BindScrollContainer(c)
	return ok()
}

func unmount(this js.Value, args []js.Value) interface{} {
	eng.ClearScrollContainer()
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	return result(eng.UpdateContainerSize(floatArg(args, 0), floatArg(args, 1)))
}

// zoom(delta, clientX, clientY, centered) handles wheel and toolbar zoom
// steps.
func zoom(this js.Value, args []js.Value) interface{} {
	req := viewport.ZoomByDelta(floatArg(args, 0), floatArg(args, 1), floatArg(args, 2))
	return result(eng.Zoom(req, boolArg(args, 3)))
}

// setZoom(factor, clientX, clientY, centered) jumps to an absolute zoom.
func setZoom(this js.Value, args []js.Value) interface{} {
	req := viewport.ZoomToFactor(floatArg(args, 0), floatArg(args, 1), floatArg(args, 2))
	return result(eng.Zoom(req, boolArg(args, 3)))
}

func fitToScreen(this js.Value, args []js.Value) interface{} {
	return result(eng.FitToScreen())
}

func fillScreen(this js.Value, args []js.Value) interface{} {
	return result(eng.FillScreen())
}

// scrollToPoint(canvasX, canvasY, screenX, screenY, smooth) brings a canvas
// point to a position in the container. Null coordinates mean "center".
func scrollToPoint(this js.Value, args []js.Value) interface{} {
	canvas := viewport.Center
	if len(args) > 1 && args[0].Type() == js.TypeNumber {
		canvas = viewport.At(args[0].Float(), floatArg(args, 1))
	}
	screen := viewport.Center
	if len(args) > 3 && args[2].Type() == js.TypeNumber {
		screen = viewport.At(args[2].Float(), floatArg(args, 3))
	}
	return result(eng.ScrollTo(canvas, screen, boolArg(args, 4)))
}

func pan(this js.Value, args []js.Value) interface{} {
	return result(eng.Pan(floatArg(args, 0), floatArg(args, 1)))
}

// followFrame(left, top, right, bottom) shows a collaborator's frame.
func followFrame(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return fail("usage: followFrame(left, top, right, bottom)")
	}
	frame := viewport.NewBounds(floatArg(args, 0), floatArg(args, 1), floatArg(args, 2), floatArg(args, 3))
	return result(eng.FollowFrame(frame))
}

func setInteractionsEnabled(this js.Value, args []js.Value) interface{} {
	eng.SetInteractionsEnabled(boolArg(args, 0))
	return nil
}

func setMoveLocked(this js.Value, args []js.Value) interface{} {
	eng.SetMoveLocked(boolArg(args, 0))
	return nil
}

func restoreScrollState(this js.Value, args []js.Value) interface{} {
	state := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		state = args[0].String()
	}
	return result(eng.RestoreScrollState(state))
}

// --- Query Handlers ---

func getViewport(this js.Value, args []js.Value) interface{} {
	return eng.GetViewport()
}

func getVisibleFrame(this js.Value, args []js.Value) interface{} {
	s, err := eng.GetVisibleFrame()
	if err != nil {
		return fail(err.Error())
	}
	return s
}

func getScrollState(this js.Value, args []js.Value) interface{} {
	s, err := eng.GetScrollState()
	if err != nil {
		return fail(err.Error())
	}
	return s
}

func screenToCanvas(this js.Value, args []js.Value) interface{} {
	s, err := eng.ScreenToCanvas(floatArg(args, 0), floatArg(args, 1))
	if err != nil {
		return fail(err.Error())
	}
	return s
}

func canvasToScreen(this js.Value, args []js.Value) interface{} {
	s, err := eng.CanvasToScreen(floatArg(args, 0), floatArg(args, 1))
	if err != nil {
		return fail(err.Error())
	}
	return s
}

func getWorkflow(this js.Value, args []js.Value) interface{} {
	return eng.GetWorkflow()
}

func getZoomFactor(this js.Value, args []js.Value) interface{} {
	return eng.GetZoomFactor()
}
