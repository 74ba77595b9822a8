// Command cartridge renders a cartridge icon to a PNG file.
//
//	cartridge -spec icon.yaml -out dist
//	cartridge -colors '#9333ea,#06b6d4' -badge G -artwork art.png -zoom 1.2
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/youruser/cartridgeicon/internal/compose"
	"github.com/youruser/cartridgeicon/internal/config"
	"github.com/youruser/cartridgeicon/internal/export"
	imagepkg "github.com/youruser/cartridgeicon/internal/image"
	"github.com/youruser/cartridgeicon/internal/logging"
	"github.com/youruser/cartridgeicon/internal/presets"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "cartridge:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	defaults := config.Default()
	fs := flag.NewFlagSet("cartridge", flag.ContinueOnError)
	specPath := fs.String("spec", "", "YAML IconSpec file; flags below override its fields")
	colors := fs.String("colors", "", "comma separated gradient colors")
	presetsFile := fs.String("presets", defaults.PresetsFile, "system gradients JSON file")
	presetKey := fs.String("preset", "", "preset key to start from")
	badge := fs.String("badge", "", "badge glyph, or image reference with -badge-image")
	badgeImage := fs.Bool("badge-image", false, "treat -badge as an image reference")
	artwork := fs.String("artwork", "", "artwork image reference")
	zoom := fs.Float64("zoom", 1.0, "artwork zoom")
	size := fs.Int("size", export.CanonicalSize, "canvas size; ignored with -export")
	assets := fs.String("assets", defaults.AssetRoot, "directory image path references resolve against")
	fonts := fs.String("fonts", "", "comma separated TTF/OTF files tried before Go Regular for text badges")
	maxPixels := fs.Int64("max-pixels", defaults.MaxPixels, "largest width*height decoded for an input image")
	out := fs.String("out", ".", "output directory")
	canonical := fs.Bool("export", true, "write the canonical download file")
	timeout := fs.Duration("timeout", 30*time.Second, "render timeout")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logging.New(level, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	spec := compose.IconSpec{ArtworkZoom: 1, CanvasSize: export.CanonicalSize}
	if *specPath != "" {
		b, err := os.ReadFile(*specPath)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, &spec); err != nil {
			return fmt.Errorf("parse %s: %w", *specPath, err)
		}
	}
	if *presetKey != "" {
		p, ok := presets.Find(presets.Load(*presetsFile, log), *presetKey)
		if !ok {
			return fmt.Errorf("unknown preset %q", *presetKey)
		}
		spec.GradientColors = p.GradientColors
		spec.Badge, spec.BadgeIsImage = p.IconRef, p.IconRef != ""
		spec.Artwork = p.ArtworkRef
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "colors":
			spec.GradientColors = config.SplitList(*colors)
		case "badge":
			spec.Badge = *badge
		case "badge-image":
			spec.BadgeIsImage = *badgeImage
		case "artwork":
			spec.Artwork = *artwork
		case "zoom":
			spec.ArtworkZoom = *zoom
		case "size":
			spec.CanvasSize = *size
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	loader := imagepkg.NewLoader(
		imagepkg.WithRoot(*assets),
		imagepkg.WithMaxPixels(*maxPixels),
		imagepkg.WithLogger(log))
	opts := []compose.Option{compose.WithLogger(log)}
	for _, path := range config.SplitList(*fonts) {
		f, err := compose.LoadFontFile(path)
		if err != nil {
			return err
		}
		opts = append(opts, compose.WithFonts(f))
	}
	comp := compose.New(loader, opts...)

	if *canonical {
		f, err := export.New(comp, export.WithLogger(log)).Export(ctx, spec, nil)
		if err != nil {
			return err
		}
		path, err := f.WriteTo(*out)
		if err != nil {
			return err
		}
		log.Info("icon written", zap.String("path", path))
		fmt.Println(path)
		return nil
	}

	res, err := comp.Compose(ctx, spec)
	if err != nil {
		return err
	}
	f := &export.File{
		Name:        fmt.Sprintf("game-cartridge-icon-%d.png", spec.CanvasSize),
		ContentType: export.ContentType,
		Data:        res.PNG,
	}
	path, err := f.WriteTo(*out)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
