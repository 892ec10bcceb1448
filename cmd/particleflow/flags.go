package main

import "flag"

var (
	// Capture
	cameraFlag = flag.Int("camera", 0, "camera device index")
	mockFlag   = flag.Bool("mock", false, "drive the swarm with a synthetic hand sequence instead of the camera")

	// Display
	widthFlag    = flag.Int("width", 800, "window width in pixels")
	heightFlag   = flag.Int("height", 600, "window height in pixels")
	seedFlag     = flag.Uint64("seed", 1, "random seed for particle placement and motion")
	debugFlag    = flag.Bool("debug", true, "show the hand skeleton and gesture label")
	terminalFlag = flag.Bool("terminal", false, "draw in the terminal instead of a window")
	countFlag    = flag.Int("particles", 4000, "number of particles")

	// Extras
	addrFlag  = flag.String("addr", "", "serve the HTTP API and streams on this address, e.g. :8080")
	chimeFlag = flag.Bool("chime", false, "play a tone on each wave")
	trayFlag  = flag.Bool("tray", false, "show a system tray menu")

	pluginsFlag = flag.String("plugins", "", "plugin directory run on each wave (default ~/.particleflow/plugins)")

	// Recording
	dbFlag     = flag.String("db", "", "SQLite database path (default ~/.particleflow/particleflow.db)")
	recordFlag = flag.String("record", "", "record landmarks to a new recording with this name")
	replayFlag = flag.String("replay", "", "replay the recording with this id instead of the camera")
	pickFlag   = flag.Bool("pick", false, "choose a recording to replay from a dialog")
)
