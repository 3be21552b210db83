package render

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/rook-computer/carousel/internal/catalog"
)

const (
	faceCacheSize = 64
	fontDPI       = 72
	uiFaceKey     = "ui"
)

type faceKey struct {
	class string
	size  int
}

// loadedFont is either an sfnt font or a freetype font; the latter covers files
// the sfnt parser refuses.
type loadedFont struct {
	otf    *opentype.Font
	tt     *truetype.Font
	source string
}

// FontBook makes a face available for every catalog font. A file named
// <style-class>.ttf or .otf in Dir wins; otherwise a Go font stands in,
// chosen by catalog category.
//
// Faces are not safe for concurrent drawing; one render goroutine owns them.
type FontBook struct {
	Dir    string
	Logger Logger

	once  sync.Once
	fonts map[string]loadedFont
	faces *lru.Cache[faceKey, font.Face]
}

func NewFontBook(dir string) *FontBook { return &FontBook{Dir: dir} }

// Load parses every font once. Calling it again is a no-op.
func (fb *FontBook) Load() {
	fb.once.Do(fb.load)
}

func (fb *FontBook) load() {
	fb.fonts = make(map[string]loadedFont)
	cache, err := lru.NewWithEvict[faceKey, font.Face](faceCacheSize, func(_ faceKey, face font.Face) {
		_ = face.Close()
	})
	if err != nil {
		// Only fails for a non-positive size.
		panic(err)
	}
	fb.faces = cache

	builtins := map[string][]byte{
		uiFaceKey:                         gomono.TTF,
		string(catalog.CategoryStandard):  goregular.TTF,
		string(catalog.CategoryPlayful):   gobolditalic.TTF,
		string(catalog.CategoryImpactful): gobold.TTF,
	}
	parsedBuiltins := make(map[string]loadedFont, len(builtins))
	for name, data := range builtins {
		f, err := opentype.Parse(data)
		if err != nil {
			fb.errorf("builtin font %s parse failed: %v", name, err)
			continue
		}
		parsedBuiltins[name] = loadedFont{otf: f, source: "builtin"}
	}
	if ui, ok := parsedBuiltins[uiFaceKey]; ok {
		fb.fonts[uiFaceKey] = ui
	}

	for _, choice := range catalog.List() {
		if lf, ok := fb.loadFile(choice); ok {
			fb.fonts[choice.StyleClass] = lf
			fb.infof("font %q loaded from %s", choice.DisplayName, lf.source)
			continue
		}
		category, _ := catalog.CategoryOf(choice)
		if lf, ok := parsedBuiltins[string(category)]; ok {
			fb.fonts[choice.StyleClass] = lf
		}
	}
}

func (fb *FontBook) loadFile(choice catalog.FontChoice) (loadedFont, bool) {
	if fb.Dir == "" {
		return loadedFont{}, false
	}
	for _, ext := range []string{".ttf", ".otf"} {
		path := filepath.Join(fb.Dir, choice.StyleClass+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err == nil {
			return loadedFont{otf: f, source: path}, true
		}
		fb.errorf("opentype parse %s failed, trying truetype: %v", path, err)
		tt, err := truetype.Parse(data)
		if err == nil {
			return loadedFont{tt: tt, source: path}, true
		}
		fb.errorf("truetype parse %s failed: %v", path, err)
	}
	return loadedFont{}, false
}

// Source reports where a catalog font's face comes from: a file path or "builtin".
func (fb *FontBook) Source(choice catalog.FontChoice) string {
	fb.Load()
	if lf, ok := fb.fonts[choice.StyleClass]; ok {
		return lf.source
	}
	return "basic"
}

// Face returns a face for choice at size pixels. The zero FontChoice selects the UI face.
func (fb *FontBook) Face(choice catalog.FontChoice, size int) font.Face {
	fb.Load()
	if size <= 0 {
		size = 32
	}
	class := choice.StyleClass
	if class == "" {
		class = uiFaceKey
	}
	key := faceKey{class: class, size: size}
	if face, ok := fb.faces.Get(key); ok {
		return face
	}

	lf, ok := fb.fonts[class]
	if !ok {
		return basicfont.Face7x13
	}
	var face font.Face
	if lf.tt != nil {
		face = truetype.NewFace(lf.tt, &truetype.Options{Size: float64(size), DPI: fontDPI, Hinting: font.HintingFull})
	} else {
		var err error
		face, err = opentype.NewFace(lf.otf, &opentype.FaceOptions{Size: float64(size), DPI: fontDPI, Hinting: font.HintingFull})
		if err != nil {
			fb.errorf("font face create failed for %s@%d, using basicfont: %v", class, size, err)
			return basicfont.Face7x13
		}
	}
	fb.faces.Add(key, face)
	return face
}

func (fb *FontBook) infof(format string, args ...interface{}) {
	if fb.Logger != nil {
		fb.Logger.Infof("fonts", format, args...)
	}
}

func (fb *FontBook) errorf(format string, args ...interface{}) {
	if fb.Logger != nil {
		fb.Logger.Errorf("fonts", format, args...)
	}
}
