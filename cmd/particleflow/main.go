package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"gocv.io/x/gocv"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/capture"
	"github.com/ayusman/particleflow/internal/chime"
	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/plugin"
	"github.com/ayusman/particleflow/internal/server"
	"github.com/ayusman/particleflow/internal/store"
	"github.com/ayusman/particleflow/internal/tray"
	"github.com/ayusman/particleflow/internal/view"
)

const demoFrames = 240

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [run|recordings]\n\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	st, err := openStore(*dbFlag)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	switch cmd := flag.Arg(0); cmd {
	case "", "run":
	case "recordings":
		if err := listRecordings(os.Stdout, st); err != nil {
			log.Fatalf("%v", err)
		}
		return
	default:
		usage()
		os.Exit(2)
	}

	if err := run(st); err != nil {
		log.Fatalf("%v", err)
	}
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir := filepath.Join(homeDir, ".particleflow")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		path = filepath.Join(dir, "particleflow.db")
	}
	return store.New(path)
}

func run(st *store.Store) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := app.DefaultConfig()
	cfg.Width = *widthFlag
	cfg.Height = *heightFlag
	cfg.Seed = *seedFlag
	cfg.Particle.Count = *countFlag
	cfg.Initial = loadSelection(st, *debugFlag)

	a := app.New(cfg, nil)
	defer func() { saveSelection(st, a.Selection()) }()

	tracker, release, err := newTracker(st)
	if errors.Is(err, errNoSelection) {
		log.Println("No recording chosen, using the camera")
		tracker, release, err = newTracker(nil)
	}
	defer release()
	if err == nil {
		err = tracker.Start(ctx)
	}
	if err != nil {
		a.ShowError(app.LabelCameraError)
		go showError("Particleflow", fmt.Sprintf("%s\n\n%v", app.LabelCameraError, err))
		tracker = nil
	} else {
		a.SetSource(tracker)
		defer tracker.Stop()
	}

	a.OnWave(func(e app.WaveEvent) {
		ev := &store.Event{Kind: store.EventKindWave, Shape: e.Shape.String(), Color: e.Color, TimestampMs: e.Time.UnixMilli()}
		if err := st.Events().Add(ev); err != nil {
			log.Printf("Failed to store wave: %v", err)
		}
	})

	if *recordFlag != "" && tracker != nil {
		rec, err := app.NewRecorder(st, *recordFlag, cfg.Width, cfg.Height)
		if err != nil {
			return err
		}
		defer rec.Close()
		log.Printf("Recording to %s", rec.ID())
		tracker.OnDetection(rec.Record)
		a.OnWave(rec.RecordWave)
	}

	if *chimeFlag {
		player := chime.NewPlayer(-1)
		if err := player.Init(); err != nil {
			log.Printf("Chime disabled: %v", err)
		} else {
			defer player.Close()
			a.OnWave(func(e app.WaveEvent) {
				if err := player.Play(e.Shape); err != nil {
					log.Printf("Chime: %v", err)
				}
			})
		}
	}

	plugins := plugin.NewManager(pluginDir(*pluginsFlag))
	if err := plugins.Discover(); err != nil {
		log.Printf("Plugins disabled: %v", err)
	} else if n := len(plugins.List()); n > 0 {
		log.Printf("Loaded %d plugins from %s", n, plugins.PluginDir())
		dispatcher := plugin.NewDispatcher(plugins, plugin.NewExecutor(5*time.Second))
		defer dispatcher.Close()
		a.OnWave(dispatcher.HandleWave)
	}

	if *addrFlag != "" {
		srvCfg := server.Config{StaticDir: findWebDir(), Store: st, App: a}
		if tracker != nil {
			srvCfg.Preview = tracker
		}
		srv := server.New(srvCfg)
		defer srv.Close()
		a.OnWave(srv.NotifyWave)
		go func() {
			log.Printf("Starting server on %s", *addrFlag)
			if err := srv.ListenAndServe(*addrFlag); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	if *trayFlag {
		t := tray.New(a.Selection())
		t.OnIntent(func(in app.Intent) {
			if err := a.Apply(in); err != nil {
				log.Printf("Tray intent %s: %v", in.Action, err)
			}
			t.SetSelection(a.Selection())
		})
		t.OnQuit(stop)
		a.OnWave(func(e app.WaveEvent) {
			t.SetLastWave(e)
			t.SetSelection(a.Selection())
		})
		go t.Run()
		defer t.Quit()
	}

	if *terminalFlag {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		return view.NewTerminal(a, screen, 30).Run(ctx)
	}

	g := view.NewGame(a)
	go func() {
		<-ctx.Done()
		g.Quit()
	}()
	return view.RunWindow(g, "Particleflow")
}

// newTracker builds the detection source chosen by the flags. A nil store
// ignores -replay and -pick. release frees the synthetic camera's frames and
// must run after the tracker has stopped; it is never nil.
func newTracker(st *store.Store) (tracker *app.Tracker, release func(), err error) {
	release = func() {}

	cfg := app.DefaultTrackerConfig()
	cfg.Preview = *addrFlag != ""

	replayID := *replayFlag
	if st != nil && replayID == "" && *pickFlag {
		id, err := pickRecording(st)
		if err != nil {
			return nil, release, err
		}
		replayID = id
	}

	switch {
	case st != nil && replayID != "":
		det, err := app.LoadReplay(st, replayID, true)
		if err != nil {
			return nil, release, err
		}
		log.Printf("Replaying recording %s (%d frames)", replayID, det.Len())
		tracker, release = syntheticTracker(cfg, det)
		return tracker, release, nil
	case *mockFlag:
		log.Println("Using the synthetic hand sequence")
		tracker, release = syntheticTracker(cfg, detector.NewReplayDetector(app.DemoFrames(demoFrames), true))
		return tracker, release, nil
	}

	det, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Printf("Hand landmarker unavailable (%v), running without hands", err)
		return app.NewTracker(cfg, capture.NewCameraWithSize(*cameraFlag, 640, 480), detector.NewMockDetector()), release, nil
	}
	return app.NewTracker(cfg, capture.NewCameraWithSize(*cameraFlag, 640, 480), det), release, nil
}

// syntheticTracker feeds det from a blank camera with motion gating off. The
// returned func closes the blank frame.
func syntheticTracker(cfg app.TrackerConfig, det detector.Detector) (*app.Tracker, func()) {
	blank := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	cam := capture.NewMockCamera([]*gocv.Mat{&blank}, true)
	cfg.MotionThresh = 0
	return app.NewTracker(cfg, cam, det), cam.Release
}

func pluginDir(dir string) string {
	if dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "plugins"
	}
	return filepath.Join(homeDir, ".particleflow", "plugins")
}

// findWebDir looks for static files next to the working directory or in ~/.particleflow/web.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWebDir := filepath.Join(homeDir, ".particleflow", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
