// PromoGen — Procedural promo media generation.
//
// Usage:
//
//	promogen image -o <file> --prompt <text> [--style poster] [options]
//	promogen styles -o <dir> --prompt <text> [options]
//	promogen video -o <file> --title <text> [--text <text>] [options]
//	promogen promo -o <file> --headline <text> [options]
//	promogen serve [--port 8080]
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/xob0t/GoPromoGen/clients/server"
	"github.com/xob0t/GoPromoGen/pkg/imagegen"
	"github.com/xob0t/GoPromoGen/pkg/promo"
	"github.com/xob0t/GoPromoGen/pkg/videogen"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "image":
		if err := runImage(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "styles":
		if err := runStyles(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "video":
		if err := runVideo(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "promo":
		if err := runPromo(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "serve":
		if err := server.RunServe(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
		fatal(fmt.Errorf("unknown command %q", os.Args[1]))
	}
}

func runImage(args []string) error {
	fs := flag.NewFlagSet("image", flag.ExitOnError)

	var (
		output  string
		prompt  string
		style   string
		subject string
		width   int
		height  int
	)

	fs.StringVar(&output, "o", "", "Output PNG path")
	fs.StringVar(&output, "output", "", "Output PNG path")
	fs.StringVar(&prompt, "prompt", "", "Text prompt")
	fs.StringVar(&style, "style", "poster", "Style: poster, gradient, minimal, vibrant, portrait")
	fs.StringVar(&subject, "subject", "", "Portrait subject: woman, man, neutral (default: inferred)")
	fs.IntVar(&width, "w", 1024, "Width in pixels")
	fs.IntVar(&width, "width", 1024, "Width in pixels")
	fs.IntVar(&height, "h", 1024, "Height in pixels")
	fs.IntVar(&height, "height", 1024, "Height in pixels")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}

	req, err := buildRequest(prompt, style, subject, width, height)
	if err != nil {
		return err
	}

	gen, err := imagegen.NewGenerator()
	if err != nil {
		return err
	}

	fmt.Printf("Generating: %s\n", output)
	result, err := gen.Generate(req, func(pct int) {
		fmt.Printf("  %d%%\n", pct)
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, result.PNG, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

// runStyles renders the prompt in every style into a directory.
func runStyles(args []string) error {
	fs := flag.NewFlagSet("styles", flag.ExitOnError)

	var (
		outDir  string
		prompt  string
		subject string
		width   int
		height  int
	)

	fs.StringVar(&outDir, "o", ".", "Output directory")
	fs.StringVar(&outDir, "output", ".", "Output directory")
	fs.StringVar(&prompt, "prompt", "", "Text prompt")
	fs.StringVar(&subject, "subject", "", "Portrait subject: woman, man, neutral (default: inferred)")
	fs.IntVar(&width, "width", 1024, "Width in pixels")
	fs.IntVar(&height, "height", 1024, "Height in pixels")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	gen, err := imagegen.NewGenerator()
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	for _, style := range imagegen.Styles {
		g.Go(func() error {
			req, err := buildRequest(prompt, string(style), subject, width, height)
			if err != nil {
				return err
			}
			result, err := gen.Generate(req, nil)
			if err != nil {
				return fmt.Errorf("style %s: %w", style, err)
			}
			path := filepath.Join(outDir, string(style)+".png")
			if err := os.WriteFile(path, result.PNG, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Printf("Done: %s\n", path)
			return nil
		})
	}
	return g.Wait()
}

func runVideo(args []string) error {
	fs := flag.NewFlagSet("video", flag.ExitOnError)

	var (
		output   string
		title    string
		text     string
		duration int
		width    int
		height   int
	)

	fs.StringVar(&output, "o", "", "Output AVI path (default: derived from title)")
	fs.StringVar(&output, "output", "", "Output AVI path (default: derived from title)")
	fs.StringVar(&title, "title", "", "Video title")
	fs.StringVar(&text, "text", "", "Body text")
	fs.IntVar(&duration, "duration", 5, "Duration in seconds (min 3)")
	fs.IntVar(&width, "width", 0, "Width in pixels (default: 1280)")
	fs.IntVar(&height, "height", 0, "Height in pixels (default: 720)")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, err := videogen.NewEngine(videogen.NewAVIFactory())
	if err != nil {
		return err
	}

	opts := videogen.Options{Title: title, Text: text, Duration: duration}
	if width > 0 && height > 0 {
		opts.Resolution = &videogen.Resolution{Width: width, Height: height}
	}

	fmt.Println("Encoding video...")
	gen, err := engine.Generate(context.Background(), opts)
	if err != nil {
		return err
	}
	if gen.Metadata.FallbackOccurred {
		fmt.Fprintf(os.Stderr, "Warning: resolution reduced to %dx%d\n",
			gen.Metadata.Resolution.Width, gen.Metadata.Resolution.Height)
	}

	if output == "" {
		output = gen.Filename
	}
	if err := os.WriteFile(output, gen.File, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Done: %s (%ds, %dx%d)\n", output, gen.Metadata.Duration,
		gen.Metadata.Resolution.Width, gen.Metadata.Resolution.Height)
	return nil
}

func runPromo(args []string) error {
	fs := flag.NewFlagSet("promo", flag.ExitOnError)

	var (
		output      string
		basePath    string
		headline    string
		subheadline string
		textColor   string
		fontSize    int
		erase       bool
	)

	fs.StringVar(&output, "o", "", "Output PNG path")
	fs.StringVar(&output, "output", "", "Output PNG path")
	fs.StringVar(&basePath, "base", "", "Base image path (PNG, optional)")
	fs.StringVar(&headline, "headline", "", "Headline text")
	fs.StringVar(&subheadline, "subheadline", "", "Subheadline text")
	fs.StringVar(&textColor, "color", "", "Text color hex (default: #ffffff)")
	fs.IntVar(&fontSize, "size", 0, "Headline font size (default: 48)")
	fs.BoolVar(&erase, "erase", false, "Erase the headline band before export")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}

	comp, err := promo.NewComposition(promo.DefaultSize)
	if err != nil {
		return err
	}
	if basePath != "" {
		img, err := readPNG(basePath)
		if err != nil {
			return err
		}
		comp.SetBaseImage(img)
	}
	if headline != "" {
		comp.SetHeadline(headline)
	}
	if subheadline != "" {
		comp.SetSubheadline(subheadline)
	}
	if textColor != "" {
		comp.SetTextColor(textColor)
	}
	if fontSize > 0 {
		comp.SetFontSize(float64(fontSize))
	}
	if erase {
		comp.Erase()
	}

	data, err := comp.ExportPNG()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

func buildRequest(prompt, style, subject string, width, height int) (imagegen.Request, error) {
	st, err := imagegen.ParseStyle(style)
	if err != nil {
		return imagegen.Request{}, err
	}
	sub := imagegen.SubjectAuto
	if subject != "" {
		sub, err = imagegen.ParseSubject(subject)
		if err != nil {
			return imagegen.Request{}, err
		}
	}
	return imagegen.Request{
		Prompt:  prompt,
		Style:   st,
		Subject: sub,
		Width:   width,
		Height:  height,
	}, nil
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open base image: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode base image: %w", err)
	}
	return img, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`PromoGen — Procedural Promo Media Generation (Pure Go)

USAGE:
    promogen image  -o <file> --prompt <text> [options]
    promogen styles -o <dir>  --prompt <text> [options]
    promogen video  [-o <file>] --title <text> [options]
    promogen promo  -o <file> --headline <text> [options]
    promogen serve  [--port 8080]

IMAGE:
    --prompt <text>        Text prompt driving the palette
    --style <name>         poster, gradient, minimal, vibrant, portrait
    --subject <name>       woman, man, neutral (portrait only; default: inferred)
    -w, --width <px>       Width in pixels (default: 1024)
    -h, --height <px>      Height in pixels (default: 1024)

STYLES:
    Renders the prompt in every style into the output directory.

VIDEO:
    --title <text>         Title shown in the video and used for the filename
    --text <text>          Body text, wrapped across lines
    --duration <sec>       Duration in seconds (default: 5, min: 3)
    --width/--height <px>  Resolution (default: 1280x720, max: 1920x1080)

PROMO:
    --base <path>          Base PNG drawn under the text
    --headline <text>      Headline at 40% height
    --subheadline <text>   Subheadline at 55% height
    --color <hex>          Text color (default: #ffffff)
    --size <px>            Headline font size (default: 48)
    --erase                Erase the headline band before export

EXAMPLES:
    promogen image -o cover.png --prompt "sunset over the sea" --style vibrant
    promogen styles -o out/ --prompt "sunset over the sea"
    promogen video --title "My Clip" --text "welcome" --duration 5
    promogen promo -o promo.png --headline "Big Launch" --subheadline "Out now"
    promogen serve --port 8080
`)
}
