package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/term"

	"github.com/wbrown/strimg"
	"github.com/wbrown/strimg/imageutil"
)

const (
	defaultWidth  = 60
	defaultHeight = 30
)

func main() {
	inputFile := flag.String("input", "",
		"Path or http(s) URL of the input image (required)")
	outputFile := flag.String("output", "",
		"Path to save the output, compressed for .gz and .zst "+
			"(if not specified, prints to stdout)")
	width := flag.Int("width", 0,
		"Target width in columns (default: terminal width, else 60)")
	height := flag.Int("height", 0,
		"Target height in image rows, two per text line "+
			"(default: terminal height, else 30)")
	colors := flag.String("colors", "auto",
		"Color mode: auto, 16, 256 or true")
	paletteFile := flag.String("palette", "",
		"Palette to use instead of -colors "+
			"(Embedded: ansi16, ansi256, or path to a JSON palette)")
	fitMode := flag.String("fit", "contain",
		"Fit mode: contain or cover")
	posX := flag.String("x", "center",
		"Horizontal position: left, center or right")
	posY := flag.String("y", "center",
		"Vertical position: top, center or bottom")
	rasterizer := flag.String("rasterizer", "draw",
		"Rasterizer: draw or gg")
	interp := flag.String("interp", "area",
		"Interpolation: area, linear or nearest")
	previewFile := flag.String("preview", "",
		"Also save a PNG preview of the output")
	fontPath := flag.String("font", "",
		"Render the preview with a font: 'gomono' (embedded) or path to TTF file")
	scale := flag.Int("scale", 4,
		"Preview scaling factor")
	verbose := flag.Bool("v", false,
		"Log conversion details to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	strimg.SetLogger(logger)

	// Validate required flags
	if *inputFile == "" {
		fmt.Println("Please provide the image using the -input flag")
		flag.PrintDefaults()
		return
	}

	fit, err := strimg.ParseFitMode(*fitMode)
	if err != nil {
		fail("parsing -fit", err)
	}
	ax, err := strimg.ParseHAlign(*posX)
	if err != nil {
		fail("parsing -x", err)
	}
	ay, err := strimg.ParseVAlign(*posY)
	if err != nil {
		fail("parsing -y", err)
	}
	ip, err := imageutil.ParseInterpolation(*interp)
	if err != nil {
		fail("parsing -interp", err)
	}
	raster, err := strimg.ParseRasterizer(*rasterizer, ip)
	if err != nil {
		fail("parsing -rasterizer", err)
	}

	w, h := gridSize(*width, *height)
	s := strimg.New(w, h,
		strimg.WithFit(fit),
		strimg.WithPosition(ax, ay),
		strimg.WithRasterizer(raster),
	)

	if *paletteFile != "" {
		p, err := strimg.LoadPalette(*paletteFile)
		if err != nil {
			fail("loading palette", err)
		}
		if err := s.SetPalette(p); err != nil {
			fail("loading palette", err)
		}
	} else {
		mode, err := colorMode(*colors)
		if err != nil {
			fail("parsing -colors", err)
		}
		if err := s.SetTerminalColor(mode); err != nil {
			fail("selecting colors", err)
		}
	}

	beginLoad := time.Now()
	if err := s.LoadImage(context.Background(), *inputFile); err != nil {
		fail("loading image", err)
	}
	endLoad := time.Now()

	// Keep the reduced pixels for the preview.
	var reduced strimg.PixelBuffer
	encoder := defaultConverter(s)
	art, err := s.ConvertWith(strimg.ConverterFunc(func(buf strimg.PixelBuffer) string {
		reduced = buf
		return encoder.Encode(buf)
	}), nil)
	if err != nil {
		fail("converting image", err)
	}
	endConvert := time.Now()

	if *outputFile != "" {
		if err := writeOutput(*outputFile, art); err != nil {
			fail("writing output", err)
		}
		fmt.Printf("Output written to %s\n", *outputFile)
	} else {
		fmt.Println(art)
	}

	if *previewFile != "" {
		if err := writePreview(*previewFile, reduced, *fontPath, *scale); err != nil {
			fail("writing preview", err)
		}
	}

	logger.Debug("done",
		"grid", fmt.Sprintf("%dx%d", w, h),
		"load", endLoad.Sub(beginLoad),
		"convert", endConvert.Sub(endLoad),
		"bytes", len(art))
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}

// gridSize fills in unset dimensions from the terminal: one column per
// cell, two image rows per line, leaving a line for the prompt.
func gridSize(width, height int) (int, int) {
	if width > 0 && height > 0 {
		return width, height
	}
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 1 {
		cols, rows = defaultWidth, defaultHeight/2+1
	}
	if width <= 0 {
		width = cols
	}
	if height <= 0 {
		height = (rows - 1) * 2
	}
	return width, height
}

// colorMode resolves "auto" from the environment. A terminal asking for no
// color still gets 16, since the output is nothing but color.
func colorMode(name string) (strimg.ColorMode, error) {
	if name != "auto" {
		return strimg.ParseColorMode(name)
	}
	mode := strimg.DetectColorMode(os.Getenv)
	if mode == strimg.ColorModeNone {
		slog.Warn("terminal reports no color support, using 16 colors")
		mode = strimg.ColorMode16
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		slog.Debug("stdout is not a terminal", "mode", mode.String())
	}
	return mode, nil
}

func defaultConverter(s *strimg.Strimg) strimg.StringConverter {
	if p := s.Palette(); p != nil {
		return strimg.NewEncoder(p.Terminal())
	}
	return strimg.TrueColorEncoder{}
}

// openOutput creates path, compressing by extension.
func openOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return &stackedWriter{Writer: gzip.NewWriter(f), file: f}, nil
	case ".zst":
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &stackedWriter{Writer: enc, file: f}, nil
	}
	return f, nil
}

// stackedWriter closes a compressor before the file beneath it.
type stackedWriter struct {
	io.Writer
	file *os.File
}

func (w *stackedWriter) Close() error {
	var err error
	if c, ok := w.Writer.(io.Closer); ok {
		err = c.Close()
	}
	if ferr := w.file.Close(); err == nil {
		err = ferr
	}
	return err
}

func writeOutput(path, art string) error {
	w, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, art+"\n"); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writePreview(path string, buf strimg.PixelBuffer, fontPath string, scale int) error {
	cells := strimg.Cells(buf)
	if fontPath == "" {
		return imageutil.SaveImage(strimg.PreviewImage(cells, scale), path)
	}
	if fontPath == "gomono" {
		fontPath = ""
	}
	fb, err := strimg.LoadFontBitmaps(fontPath)
	if err != nil {
		return err
	}
	fontScale := max(scale/4, 1)
	slog.Debug("rendering preview with font", "font", fb.Name(), "scale", fontScale)
	return imageutil.SaveImage(fb.RenderCells(cells, fontScale), path)
}
