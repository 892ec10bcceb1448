package main

import (
	"log"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/particle"
	"github.com/ayusman/particleflow/internal/render"
	"github.com/ayusman/particleflow/internal/store"
)

const (
	keyShape = "selection.shape"
	keyColor = "selection.color"
)

// loadSelection restores the last shape and colour. Debug comes from the
// flag. Unknown or invalid values fall back to the defaults.
func loadSelection(st *store.Store, debug bool) app.Selection {
	sel := app.DefaultSelection()
	sel.Debug = debug
	if st == nil {
		return sel
	}

	settings := st.Settings()
	if shape, err := particle.ParseShape(settings.GetOr(keyShape, "")); err == nil {
		sel.Shape = shape
	}
	if c := settings.GetOr(keyColor, ""); c != "" {
		if _, err := render.ParseHex(c); err == nil {
			sel.Color = c
		}
	}
	return sel
}

// saveSelection stores the selection so the next run starts where this one ended.
func saveSelection(st *store.Store, sel app.Selection) {
	if st == nil {
		return
	}
	settings := st.Settings()
	for key, value := range map[string]string{
		keyShape: sel.Shape.String(),
		keyColor: sel.Color,
	} {
		if err := settings.Set(key, value); err != nil {
			log.Printf("Failed to save %s: %v", key, err)
		}
	}
}
