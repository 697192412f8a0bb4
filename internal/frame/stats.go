package frame

import "time"

// statsWindow is the interval over which frames per second are averaged.
const statsWindow = time.Second

// Stats measures render throughput.
type Stats struct {
	frames      uint64
	windowStart time.Time
	windowCount int
	fps         float64
	lastFrame   time.Time
	frameTime   time.Duration
}

// Frame records a completed frame at now. It reports whether a new
// frames-per-second figure became available.
func (s *Stats) Frame(now time.Time) bool {
	s.frames++
	if !s.lastFrame.IsZero() {
		s.frameTime = now.Sub(s.lastFrame)
	}
	s.lastFrame = now

	if s.windowStart.IsZero() {
		s.windowStart = now
		return false
	}
	s.windowCount++
	if span := now.Sub(s.windowStart); span >= statsWindow {
		s.fps = float64(s.windowCount) / span.Seconds()
		s.windowStart = now
		s.windowCount = 0
		return true
	}
	return false
}

// FPS returns frames per second over the last complete window.
func (s *Stats) FPS() float64 {
	return s.fps
}

// FrameTime returns the interval between the last two frames.
func (s *Stats) FrameTime() time.Duration {
	return s.frameTime
}

// Frames returns the total number of frames recorded.
func (s *Stats) Frames() uint64 {
	return s.frames
}
