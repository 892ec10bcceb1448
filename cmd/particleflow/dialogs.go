package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/zenity"

	"github.com/ayusman/particleflow/internal/store"
)

// errNoSelection is returned when the picker is cancelled or has nothing to offer.
var errNoSelection = errors.New("no recording selected")

// recordingLabel is how a recording appears in the picker and the listing.
func recordingLabel(r *store.Recording) string {
	return fmt.Sprintf("%s  (%d frames, %s)", r.Name, r.Frames, humanize.Time(r.CreatedAt))
}

// pickRecording asks the user to choose a recording and returns its id.
func pickRecording(st *store.Store) (string, error) {
	recs, err := st.Recordings().List()
	if err != nil {
		return "", fmt.Errorf("list recordings: %w", err)
	}
	if len(recs) == 0 {
		return "", errNoSelection
	}

	items := make([]string, len(recs))
	byLabel := make(map[string]string, len(recs))
	for i, r := range recs {
		items[i] = recordingLabel(r)
		byLabel[items[i]] = r.ID
	}

	choice, err := zenity.List("Choose a recording to replay", items,
		zenity.Title("Particleflow"),
		zenity.DefaultItems(items[0]),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", errNoSelection
		}
		return "", fmt.Errorf("recording picker: %w", err)
	}
	id, ok := byLabel[choice]
	if !ok {
		return "", errNoSelection
	}
	return id, nil
}

// showError pops up an error dialog and logs it. Dialog failures are logged only.
func showError(title, text string) {
	log.Printf("%s: %s", title, text)
	if err := zenity.Error(text, zenity.Title(title), zenity.ErrorIcon); err != nil {
		log.Printf("error dialog: %v", err)
	}
}
