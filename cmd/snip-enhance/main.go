// snip-enhance is the command-line host for the enhancement engine: it
// reads recorded frames and audio from disk, runs the configured
// enhancement pipeline, and writes the corrected results back out.
package main

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kemo-beep/snip-enhance/internal/audiofx"
	"github.com/kemo-beep/snip-enhance/internal/logging"
	"github.com/kemo-beep/snip-enhance/internal/motion"
	"github.com/kemo-beep/snip-enhance/internal/pipeline"
	"github.com/kemo-beep/snip-enhance/internal/pixel"
	"github.com/kemo-beep/snip-enhance/internal/shader"
)

// CLI flags
var (
	inFlag         string
	outFlag        string
	presetFlag     string
	storeFlag      string
	resolutionFlag string
	gpuFlag        bool
	frameAFlag     string
	frameBFlag     string
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "snip-enhance",
	Short: "Enhance screen-recording video frames and audio",
	Long: `snip-enhance runs the recording enhancement pipeline from the command line:
automatic color correction, noise reduction, volume normalization, voice
clarity, echo cancellation, and shake stabilization.

Examples:
  snip-enhance image --in frame.png --out enhanced.png --preset auto
  snip-enhance image --in frame.png --out small.png --resolution 720p
  snip-enhance audio --in narration.wav --out clean.wav --preset podcast
  snip-enhance analyze --a frame1.png --b frame2.png
  snip-enhance presets --store ~/.snip/presets.json.gz`,
}

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Enhance a single frame image (PNG or JPEG)",
	RunE:  runImage,
}

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Enhance a WAV audio file",
	RunE:  runAudio,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report motion and shake between two consecutive frames",
	RunE:  runAnalyze,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List default and custom enhancement presets",
	RunE:  runPresets,
}

func init() {
	imageCmd.Flags().StringVar(&inFlag, "in", "", "Input image path (PNG or JPEG)")
	imageCmd.Flags().StringVar(&outFlag, "out", "", "Output PNG path")
	imageCmd.Flags().StringVar(&presetFlag, "preset", "auto", "Enhancement preset id")
	imageCmd.Flags().StringVar(&storeFlag, "store", defaultStorePath(), "Custom preset store path")
	imageCmd.Flags().StringVar(&resolutionFlag, "resolution", "original", "Output resolution preset: 4k, 1080p, 720p, 480p, original")
	imageCmd.Flags().BoolVar(&gpuFlag, "gpu", false, "Use the GPU shader path when available")
	_ = imageCmd.MarkFlagRequired("in")
	_ = imageCmd.MarkFlagRequired("out")

	audioCmd.Flags().StringVar(&inFlag, "in", "", "Input WAV path")
	audioCmd.Flags().StringVar(&outFlag, "out", "", "Output WAV path")
	audioCmd.Flags().StringVar(&presetFlag, "preset", "auto", "Enhancement preset id")
	audioCmd.Flags().StringVar(&storeFlag, "store", defaultStorePath(), "Custom preset store path")
	_ = audioCmd.MarkFlagRequired("in")
	_ = audioCmd.MarkFlagRequired("out")

	analyzeCmd.Flags().StringVar(&frameAFlag, "a", "", "First frame image path")
	analyzeCmd.Flags().StringVar(&frameBFlag, "b", "", "Second frame image path")
	_ = analyzeCmd.MarkFlagRequired("a")
	_ = analyzeCmd.MarkFlagRequired("b")

	presetsCmd.Flags().StringVar(&storeFlag, "store", defaultStorePath(), "Custom preset store path")

	rootCmd.AddCommand(imageCmd, audioCmd, analyzeCmd, presetsCmd)
}

func main() {
	logging.Init()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// defaultStorePath places the preset store under the user config directory.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "presets.json.gz"
	}
	return filepath.Join(dir, "snip-enhance", "presets.json.gz")
}

// signalContext returns a context cancelled by Ctrl-C so batch processing
// stops between frames instead of being killed mid-write.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// buildPipeline resolves the preset and constructs the pipeline, probing
// the GPU when requested.
func buildPipeline(useGPU bool) (*pipeline.Pipeline, pipeline.Preset, error) {
	preset, err := pipeline.FindPreset(presetFlag, pipeline.NewFileStore(storeFlag))
	if err != nil {
		return nil, pipeline.Preset{}, err
	}

	opts := pipeline.Options{}
	if useGPU {
		backend, err := shader.OpenGL()
		if err != nil {
			log.Warn().Err(err).Msg("OpenGL unavailable, using CPU paths")
		} else {
			opts.Shaders = shader.NewManager(backend)
		}
	}

	p, err := pipeline.New(preset.Config, preset.Settings, opts)
	if err != nil {
		return nil, pipeline.Preset{}, err
	}
	return p, preset, nil
}

func runImage(cmd *cobra.Command, args []string) error {
	start := time.Now()

	p, preset, err := buildPipeline(gpuFlag)
	if err != nil {
		return err
	}

	frame, err := readFrame(inFlag)
	if err != nil {
		return err
	}

	logging.NewRunLogger("image").
		Input("in", inFlag).
		Input("out", outFlag).
		Config("preset", preset.ID).
		Config("resolution", resolutionFlag).
		Effect("colorCorrection", preset.Config.AutoColorCorrection).
		Effect("brightness", preset.Config.AutoBrightnessAdjust).
		Effect("contrast", preset.Config.AutoContrast).
		Effect("whiteBalance", preset.Config.AutoWhiteBalance).
		GPU(gpuFlag).
		SetupTime(time.Since(start)).
		Log()

	ctx, cancel := signalContext()
	defer cancel()

	enhanced, err := p.ProcessFrame(ctx, nil, frame)
	if err != nil {
		return err
	}

	if pixel.Resolution(resolutionFlag) != pixel.ResolutionOriginal {
		enhanced, err = pixel.FitResolution(enhanced, pixel.Resolution(resolutionFlag))
		if err != nil {
			return err
		}
	}

	if err := writePNG(outFlag, enhanced); err != nil {
		return err
	}

	m := p.Metrics()
	log.Info().
		Float64("brightness", m.BrightnessAdjustment).
		Float64("contrast", m.ContrastAdjustment).
		Float64("temperature", m.ColorTemperatureShift).
		Dur("elapsed", time.Since(start)).
		Msg("Frame enhanced")
	return nil
}

func runAudio(cmd *cobra.Command, args []string) error {
	start := time.Now()

	p, preset, err := buildPipeline(false)
	if err != nil {
		return err
	}

	in, err := os.Open(inFlag)
	if err != nil {
		return fmt.Errorf("open input audio: %w", err)
	}
	defer in.Close()

	buf, err := audiofx.ReadWAV(in)
	if err != nil {
		return err
	}

	logging.NewRunLogger("audio").
		Input("in", inFlag).
		Input("out", outFlag).
		Config("preset", preset.ID).
		Effect("noiseReduction", preset.Config.AutoNoiseReduction).
		Effect("volumeNormalization", preset.Config.AutoVolumeNormalization).
		Effect("voiceEnhancement", preset.Config.AutoVoiceEnhancement).
		Effect("echoCancel", preset.Config.AutoEchoCancel).
		SetupTime(time.Since(start)).
		Log()

	ctx, cancel := signalContext()
	defer cancel()

	enhanced, err := p.ProcessAudio(ctx, buf)
	if err != nil {
		return err
	}

	out, err := os.Create(outFlag)
	if err != nil {
		return fmt.Errorf("create output audio: %w", err)
	}
	defer out.Close()

	if err := audiofx.WriteWAV(out, enhanced); err != nil {
		return err
	}

	m := p.Metrics()
	log.Info().
		Float64("noise_db", m.NoiseReductionDB).
		Float64("volume_db", m.VolumeAdjustmentDB).
		Float64("echo_reduction_pct", audiofx.EstimateEchoReduction(buf, enhanced)).
		Dur("elapsed", time.Since(start)).
		Msg("Audio enhanced")
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := readFrame(frameAFlag)
	if err != nil {
		return err
	}
	b, err := readFrame(frameBFlag)
	if err != nil {
		return err
	}

	analysis := motion.Analyze(a, b, motion.Options{})
	log.Info().
		Int("vectors", len(analysis.Vectors)).
		Float64("avg_dx", analysis.Average.X).
		Float64("avg_dy", analysis.Average.Y).
		Float64("avg_magnitude", analysis.Average.Magnitude).
		Bool("shake", analysis.IsShake).
		Float64("intensity", analysis.Intensity).
		Float64("confidence", analysis.Confidence).
		Msg("Motion analysis")
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	for _, p := range pipeline.DefaultPresets() {
		fmt.Printf("%-14s %-20s %s\n", p.ID, p.Name, p.Description)
	}

	custom, err := pipeline.NewFileStore(storeFlag).CustomPresets()
	if err != nil {
		return err
	}
	for _, p := range custom {
		fmt.Printf("%-14s %-20s %s (custom)\n", p.ID, p.Name, p.Description)
	}
	return nil
}

// readFrame decodes a PNG or JPEG file into a pixel buffer.
func readFrame(path string) (*pixel.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	default:
		img, err = png.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return pixel.FromImage(img), nil
}

// writePNG encodes a pixel buffer to a PNG file.
func writePNG(path string, b *pixel.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, b.ToRGBA()); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}
