package grid

import "sync"

// Container is the box a grid is laid out in.
type Container interface {
	// Size returns the rendered width and height available to the grid.
	Size() (width, height float64)
	// Observe registers fn to be called after every resize. The returned
	// stop function unregisters it.
	Observe(fn func()) (stop func())
}

// StylesheetLoader is implemented by containers that can load the grid's
// stylesheet when it is attached.
type StylesheetLoader interface {
	LoadStylesheet(href string)
}

// Viewport is a Container whose size is pushed in from outside, e.g. by a
// terminal WindowSizeMsg or a browser resize message.
type Viewport struct {
	mu         sync.Mutex
	width      float64
	height     float64
	observers  map[int]func()
	nextID     int
	stylesheet string
}

func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		width:     width,
		height:    height,
		observers: make(map[int]func()),
	}
}

func (v *Viewport) Size() (float64, float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Resize updates the size and notifies observers when it changed.
func (v *Viewport) Resize(width, height float64) {
	v.mu.Lock()
	if width == v.width && height == v.height {
		v.mu.Unlock()
		return
	}
	v.width, v.height = width, height
	fns := make([]func(), 0, len(v.observers))
	for _, fn := range v.observers {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (v *Viewport) Observe(fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.observers, id)
			v.mu.Unlock()
		})
	}
}

// Observers reports how many resize observers are registered.
func (v *Viewport) Observers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}

func (v *Viewport) LoadStylesheet(href string) {
	v.mu.Lock()
	v.stylesheet = href
	v.mu.Unlock()
}

// Stylesheet returns the last stylesheet loaded by an attached grid.
func (v *Viewport) Stylesheet() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stylesheet
}
