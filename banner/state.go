package banner

type State int

const (
	Hidden State = iota
	ShowingOffline
	FlashingOnline
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "HIDDEN"
	case ShowingOffline:
		return "SHOWING OFFLINE"
	case FlashingOnline:
		return "FLASHING ONLINE"
	default:
		return "INVALID STATE"
	}
}

// Effect is a declarative instruction for the view that draws the banners.
type Effect int

const (
	ShowOffline Effect = iota
	HideOffline
	ShowOnline
	HideOnline
)

func (e Effect) String() string {
	switch e {
	case ShowOffline:
		return "SHOW OFFLINE"
	case HideOffline:
		return "HIDE OFFLINE"
	case ShowOnline:
		return "SHOW ONLINE"
	case HideOnline:
		return "HIDE ONLINE"
	default:
		return "INVALID EFFECT"
	}
}

// Renderer is called while the banner holds its lock and must not call
// back into the banner.
type Renderer interface {
	Render(Effect)
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(Effect)

func (f RendererFunc) Render(e Effect) {
	f(e)
}
