// Command viewer opens a window on a model scene and renders it through the
// forward (Phong or cascaded shadows) or deferred pipeline.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"rendering-engine/config"
	"rendering-engine/core/window"
	"rendering-engine/internal/logx"
	"rendering-engine/internal/opengl"
	"rendering-engine/renderer"
	"rendering-engine/scene"
)

const targetFPS = 60

type flags struct {
	config      string
	width       int
	height      int
	renderType  string
	shader      string
	shaderDir   string
	optionsFile string
	logLevel    string
	glInfo      bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "viewer [model...]",
		Short:         "Interactive 3D viewer with forward, cascaded shadow and deferred pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			log, err := logx.New(os.Stderr, cfg.Log)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			if err := view(cfg, log); err != nil {
				log.Error("viewer stopped", "err", err)
				return err
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "YAML or TOML config file")
	fl.IntVar(&f.width, "width", 0, "window width in pixels")
	fl.IntVar(&f.height, "height", 0, "window height in pixels")
	fl.StringVar(&f.renderType, "render", "", "render type: forward or deferred")
	fl.StringVar(&f.shader, "shader", "", "forward shader: phong or csm")
	fl.StringVar(&f.shaderDir, "shader-dir", "", "directory of <program>.vert/.geom/.frag overrides")
	fl.StringVar(&f.optionsFile, "options", "", "options file reloaded on change")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.BoolVar(&f.glInfo, "gl-info", false, "log the OpenGL version and renderer")
	return cmd
}

// resolveConfig loads the config file, then lets explicitly set flags and
// positional models override it.
func resolveConfig(cmd *cobra.Command, f flags, models []string) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return cfg, err
		}
	}
	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Window.Width = f.width
	}
	if changed("height") {
		cfg.Window.Height = f.height
	}
	if changed("render") {
		if err := cfg.Options.RenderType.UnmarshalText([]byte(f.renderType)); err != nil {
			return cfg, err
		}
	}
	if changed("shader") {
		if err := cfg.Options.ForwardShader.UnmarshalText([]byte(f.shader)); err != nil {
			return cfg, err
		}
	}
	if changed("shader-dir") {
		cfg.Renderer.ShaderDir = f.shaderDir
	}
	if changed("options") {
		cfg.OptionsFile = f.optionsFile
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("gl-info") {
		cfg.Renderer.Debug.GLInfo = f.glInfo
	}
	if len(models) > 0 {
		cfg.Scene.Models = models
	}
	return cfg, cfg.Validate()
}

// loadScene loads every model and places the light.
func loadScene(cfg config.Config, log *slog.Logger) (*scene.Scene, error) {
	scn := scene.New()
	for _, path := range cfg.Scene.Models {
		meshes, err := scene.LoadModel(path, log)
		if err != nil {
			return nil, err
		}
		log.Info("model loaded", "path", path, "meshes", len(meshes))
		scn.Add(meshes...)
	}
	scn.AddDirectionalLight(cfg.Light.NewLight())
	if cfg.Scene.UpdateLight {
		scn.UpdateDirectionalLight()
	}
	return scn, nil
}

func view(cfg config.Config, log *slog.Logger) error {
	win, err := window.New(cfg.Window)
	if err != nil {
		return err
	}
	defer win.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	if cfg.Renderer.Debug.GLInfo {
		log.Info("opengl context", "version", dev.Version(), "renderer", dev.Renderer())
	}

	rend, err := renderer.New(dev, cfg.Renderer, log)
	if err != nil {
		return err
	}
	defer rend.Delete()
	rend.Resize(win.Width, win.Height)

	scn, err := loadScene(cfg, log)
	if err != nil {
		return err
	}
	if err := scn.Upload(dev); err != nil {
		scn.Release(dev)
		return fmt.Errorf("upload scene: %w", err)
	}
	defer scn.Release(dev)

	cam := cfg.Camera.NewCamera(win.Width, win.Height)
	ctrl := newOrbitController(cam, cfg.Camera.Target, targetFPS)

	opts := cfg.Options
	win.SetResizeCallback(func(w, h int) {
		rend.Resize(w, h)
		cam.SetAspect(w, h)
	})
	win.SetScrollCallback(func(_, yoff float64) {
		ctrl.Zoom(float32(yoff))
	})
	win.SetKeyCallback(func(key int, shift bool) {
		switch key {
		case window.KeyEscape, window.KeyQ:
			win.SetShouldClose(true)
		case window.KeyH:
			ctrl.Frame(scn.Box)
		default:
			applyHotkey(&opts, key, shift, log)
		}
	})
	logHotkeys(log)
	log.Info("hotkey", "key", "H", "action", "frame scene")

	var updates <-chan renderer.Options
	if cfg.OptionsFile != "" {
		w, err := config.WatchOptions(cfg.OptionsFile, opts, log)
		if err != nil {
			log.Warn("options file not watched", "err", err)
		} else {
			defer w.Close()
			updates = w.Updates()
		}
	}

	dev.SetClearColor(0.1, 0.1, 0.1, 1)
	for !win.ShouldClose() {
		win.PollEvents()
		select {
		case o := <-updates:
			opts = o
		default:
		}
		ctrl.Update(win)

		dev.Clear(true, true)
		if err := rend.Render(cam, scn, opts); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		win.SwapBuffers()
	}
	return nil
}
