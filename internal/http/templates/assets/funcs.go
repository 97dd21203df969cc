package assets

import (
	"fmt"
	"html/template"

	"github.com/financehub/financehub-web/internal/domain/shell"
	httpassets "github.com/financehub/financehub-web/internal/http/assets"
)

// IconSprite is the logical name of the SVG sprite holding every icon symbol.
const IconSprite = "icons.svg"

// Options configures asset-related template helpers.
type Options struct {
	Resolver    *httpassets.AssetResolver
	DevMode     bool
	CriticalCSS func() string
}

// Funcs returns template helpers for asset resolution, icons and critical CSS embedding.
func Funcs(opts Options) template.FuncMap {
	resolve := func(logicalName string) string {
		return httpassets.ResolveAsset(opts.Resolver, logicalName, opts.DevMode)
	}

	return template.FuncMap{
		"asset": resolve,
		"icon": func(ic shell.Icon, class string) template.HTML {
			return IconHTML(resolve(IconSprite), ic, class)
		},
		"iconNamed": func(name, class string) template.HTML {
			return IconHTML(resolve(IconSprite), shell.IconOf(name), class)
		},
		"criticalCSS": func() template.CSS {
			if opts.CriticalCSS == nil {
				return ""
			}
			// #nosec G203 - critical CSS is read from our own static files
			return template.CSS(opts.CriticalCSS())
		},
	}
}

// IconHTML renders an inline SVG referencing the icon's symbol in the sprite.
// An absent icon renders nothing.
func IconHTML(spriteURL string, ic shell.Icon, class string) template.HTML {
	if !ic.Present() {
		return ""
	}
	// #nosec G203 - every interpolated value is escaped
	return template.HTML(fmt.Sprintf(
		`<svg class="%s" aria-hidden="true" focusable="false"><use href="%s#%s"></use></svg>`,
		template.HTMLEscapeString(class),
		template.HTMLEscapeString(spriteURL),
		template.HTMLEscapeString(ic.Name()),
	))
}
