package web

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rook-computer/carousel/internal/catalog"
)

const googleFontsURL = "https://fonts.googleapis.com/css2?family=%s:wght@400;700&display=swap"

var genericFamily = map[catalog.CategoryName]string{
	catalog.CategoryStandard:  "sans-serif",
	catalog.CategoryPlayful:   "cursive",
	catalog.CategoryImpactful: "sans-serif",
}

// FontAssetURL is the stylesheet URL that loads one catalog font.
func FontAssetURL(f catalog.FontChoice) string {
	return fmt.Sprintf(googleFontsURL, strings.ReplaceAll(f.DisplayName, " ", "+"))
}

var fontsCSS = sync.OnceValue(func() []byte {
	var b strings.Builder
	for _, f := range catalog.List() {
		fmt.Fprintf(&b, "@import url('%s');\n", FontAssetURL(f))
	}
	b.WriteString("\n")
	for _, f := range catalog.List() {
		category, _ := catalog.CategoryOf(f)
		fmt.Fprintf(&b, ".%s { font-family: '%s', %s; }\n", f.StyleClass, f.DisplayName, genericFamily[category])
	}
	return []byte(b.String())
})

// handleFontsCSS serves the stylesheet that makes every catalog style class usable in the host UI.
func handleFontsCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(fontsCSS())
}
