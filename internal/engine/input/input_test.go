package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestPushDrag(t *testing.T) {
	in := New()
	in.Push(&sdl.MouseMotionEvent{X: 10, Y: 10, XRel: 1, YRel: 1})
	in.Push(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 10, Y: 10})
	in.Push(&sdl.MouseMotionEvent{X: 15, Y: 8, XRel: 5, YRel: -2})
	in.Push(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT, X: 15, Y: 8})
	in.Push(&sdl.MouseMotionEvent{X: 16, Y: 8, XRel: 1})

	want := []EventType{EventMouseMove, EventMouseDown, EventDrag, EventMouseUp, EventMouseMove}
	got := in.Events()
	if len(got) != len(want) {
		t.Fatalf("events: got %d, want %d", len(got), len(want))
	}
	for i, typ := range want {
		if got[i].Type != typ {
			t.Errorf("event %d: got type %v, want %v", i, got[i].Type, typ)
		}
	}
	if got[2].DeltaX != 5 || got[2].DeltaY != -2 {
		t.Errorf("drag delta: got (%v, %v), want (5, -2)", got[2].DeltaX, got[2].DeltaY)
	}
	if in.Dragging() {
		t.Error("still dragging after button up")
	}
}

func TestPushRightButtonDoesNotDrag(t *testing.T) {
	in := New()
	in.Push(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT})
	in.Push(&sdl.MouseMotionEvent{XRel: 3})
	if got := in.Events()[1].Type; got != EventMouseMove {
		t.Errorf("motion with right button: got type %v, want %v", got, EventMouseMove)
	}
}

func TestPushWheel(t *testing.T) {
	in := New()
	in.Push(&sdl.MouseWheelEvent{Y: 2})
	in.Push(&sdl.MouseWheelEvent{Y: 1, Direction: sdl.MOUSEWHEEL_FLIPPED})
	in.Push(&sdl.MouseWheelEvent{X: 1})

	got := in.Events()
	if len(got) != 2 {
		t.Fatalf("wheel events: got %d, want 2", len(got))
	}
	if got[0].WheelY != 2 || got[1].WheelY != -1 {
		t.Errorf("wheel steps: got %v and %v, want 2 and -1", got[0].WheelY, got[1].WheelY)
	}
}

func TestPushResizeAndKeys(t *testing.T) {
	in := New()
	in.Push(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600})
	in.Push(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_GAINED})
	in.Push(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_R}})
	in.Push(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_R}})

	got := in.Events()
	if len(got) != 2 {
		t.Fatalf("events: got %d, want 2", len(got))
	}
	if got[0].Type != EventWindowResize || got[0].Width != 800 || got[0].Height != 600 {
		t.Errorf("resize: got %+v", got[0])
	}
	if !in.IsKeyPressed(sdl.SCANCODE_R) {
		t.Error("R not reported as pressed")
	}
	if quit := in.Push(&sdl.QuitEvent{}); !quit {
		t.Error("quit event did not request quit")
	}
}

func TestPushDropFile(t *testing.T) {
	in := New()
	in.Push(&sdl.DropEvent{Type: sdl.DROPFILE, File: "/tmp/robot.glb"})
	in.Push(&sdl.DropEvent{Type: sdl.DROPBEGIN})

	got := in.Events()
	if len(got) != 1 || got[0].Type != EventDropFile || got[0].Path != "/tmp/robot.glb" {
		t.Errorf("drop events: got %+v", got)
	}
}
