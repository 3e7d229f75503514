package engine

import (
	"fmt"
	"sync"

	"github.com/lumenengine/lumen/engine/core"
	"github.com/lumenengine/lumen/engine/platform"
	"github.com/lumenengine/lumen/engine/renderer"
	"github.com/lumenengine/lumen/engine/renderer/vulkan"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Engine drives the cooperative frame loop: input polling, transform
// composition, uniform synchronization and hand-off to submission run
// in that fixed order once per iteration, on a single thread.
type Engine struct {
	currentStage Stage
	config       *ApplicationConfig

	platform      *platform.Platform
	renderer      *renderer.Renderer
	composer      *renderer.TransformComposer
	configWatcher *ConfigWatcher

	// Owned by the engine and passed down, so tests can substitute a
	// deterministic time source.
	clock *core.Clock

	// Closed by RequestClose; the only Engine surface other goroutines
	// may touch.
	quit      chan struct{}
	closeOnce sync.Once

	isRunning   bool
	isSuspended bool
	width       uint32
	height      uint32
}

func New(cfg *ApplicationConfig, configPath string) (*Engine, error) {
	p := platform.New()

	composer := renderer.NewTransformComposer()
	composer.FieldOfView = cfg.FieldOfView
	composer.NearClip = cfg.NearClip
	composer.FarClip = cfg.FarClip
	composer.AngularVelocity = cfg.AngularVelocity

	backend := vulkan.New(p, cfg.FramesInFlight)

	var watcher *ConfigWatcher
	if configPath != "" {
		w, err := NewConfigWatcher(configPath)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		watcher = w
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		config:        cfg,
		platform:      p,
		composer:      composer,
		renderer:      renderer.New(backend, composer),
		configWatcher: watcher,
		clock:         core.NewClock(),
		quit:          make(chan struct{}),
		isRunning:     true,
		isSuspended:   false,
		width:         cfg.StartWidth,
		height:        cfg.StartHeight,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	core.SetLogLevel(e.config.LogLevel)

	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)
	core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, e, e.onConfigReloaded)

	if err := e.platform.Startup(e.config.Name,
		e.config.StartPosX,
		e.config.StartPosY,
		e.config.StartWidth,
		e.config.StartHeight); err != nil {
		return err
	}

	if err := e.renderer.Initialize(e.config.Name, e.config.StartWidth, e.config.StartHeight); err != nil {
		return err
	}

	if e.configWatcher != nil {
		if err := e.configWatcher.Start(); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run executes the frame loop until a quit request, window close or a
// fatal error. Errors from the renderer abort the loop; there is no
// skip-a-frame recovery for configuration or resource failures.
func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	lastTime := 0.0

	for e.isRunning && !e.platform.ShouldClose() {
		select {
		case <-e.quit:
			e.isRunning = false
			continue
		default:
		}

		e.platform.PumpMessages()

		// Reloads are queued by the watcher goroutine and applied here,
		// between frames, so compose never reads a tunable mid-update.
		if e.configWatcher != nil {
			if cfg, ok := e.configWatcher.Pending(); ok {
				e.fireConfigReloaded(cfg)
			}
		}

		if e.isSuspended {
			continue
		}

		elapsed := e.clock.Elapsed()
		deltaTime := elapsed - lastTime
		lastTime = elapsed

		if err := e.renderer.DrawFrame(elapsed, deltaTime); err != nil {
			core.LogError("frame loop aborted: %s", err)
			e.isRunning = false
			if shutdownErr := e.Shutdown(); shutdownErr != nil {
				core.LogError("shutdown after frame failure: %s", shutdownErr)
			}
			return err
		}

		core.MetricsUpdate(deltaTime)
	}

	return e.Shutdown()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	fps, frameTime := core.MetricsFrame()
	core.LogInfo("shutting down (last metrics: %.1f fps, %.2f ms/frame)", fps, frameTime)

	if e.configWatcher != nil {
		if err := e.configWatcher.Close(); err != nil {
			core.LogWarn("config watcher close: %s", err)
		}
	}
	if err := e.renderer.Shutdown(); err != nil {
		core.LogError("renderer shutdown: %s", err)
	}
	if err := e.platform.Shutdown(); err != nil {
		core.LogError("platform shutdown: %s", err)
	}
	return core.EventShutdown()
}

// RequestClose asks the frame loop to exit after its current
// iteration. Safe to call from any goroutine, unlike Shutdown, which
// must run on the loop thread.
func (e *Engine) RequestClose() {
	e.closeOnce.Do(func() { close(e.quit) })
}

func (e *Engine) fireConfigReloaded(cfg *ApplicationConfig) {
	context := core.EventContext{}
	context.Data.F32[0] = cfg.FieldOfView
	context.Data.F32[1] = cfg.AngularVelocity
	context.Data.F32[2] = cfg.NearClip
	context.Data.F32[3] = cfg.FarClip
	context.Data.C[0] = cfg.LogLevel
	core.EventFire(core.EVENT_CODE_CONFIG_RELOADED, e, context)
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("quit requested, stopping frame loop")
		e.isRunning = false
		return true
	}
	return false
}

// onResized forwards the new extent to the renderer before the next
// compose call, keeping the projection aspect ratio current. A zero
// extent means the window is minimized; rendering suspends until a
// drawable extent arrives.
func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	width := data.Data.U16[0]
	height := data.Data.U16[1]
	if uint32(width) == e.width && uint32(height) == e.height {
		return false
	}
	e.width = uint32(width)
	e.height = uint32(height)

	if width == 0 || height == 0 {
		core.LogInfo("window minimized, suspending")
		e.isSuspended = true
		return true
	}
	e.isSuspended = false

	if err := e.renderer.OnResized(width, height); err != nil {
		core.LogError("resize handling failed: %s", err)
	}
	return false
}

func (e *Engine) onConfigReloaded(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.SetLogLevel(data.Data.C[0])
	e.composer.FieldOfView = data.Data.F32[0]
	e.composer.AngularVelocity = data.Data.F32[1]
	e.composer.NearClip = data.Data.F32[2]
	e.composer.FarClip = data.Data.F32[3]
	core.LogInfo("composer tunables updated from config")
	return true
}
