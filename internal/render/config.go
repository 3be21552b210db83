package render

// Options configures a framebuffer renderer.
type Options struct {
	// Device is the framebuffer device path.
	Device string
	// Logical canvas size; scaled to framebuffer.
	CanvasWidth  int
	CanvasHeight int
	// LogoHeight is the logo height at ReferenceFrameHeight.
	LogoHeight int
	FontsDir   string
}

func DefaultOptions() Options {
	return Options{
		Device:       "/dev/fb0",
		CanvasWidth:  1920,
		CanvasHeight: 1080,
		LogoHeight:   75,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Device == "" {
		o.Device = def.Device
	}
	if o.CanvasWidth <= 0 || o.CanvasHeight <= 0 {
		o.CanvasWidth, o.CanvasHeight = def.CanvasWidth, def.CanvasHeight
	}
	if o.LogoHeight <= 0 {
		o.LogoHeight = def.LogoHeight
	}
	return o
}
