// capclip - Turn a single image or video clip into a short portrait video
// with synchronized, auto-wrapped, outlined captions.
//
// Usage:
//
//	capclip -i <media> -o <out.mp4> --text "..." [options]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/velsh/capclip/pkg/compose"
	"github.com/velsh/capclip/pkg/render"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "-help", "--help":
			printUsage()
			return
		}
	}

	if err := run(os.Args[1:]); err != nil {
		fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("capclip", flag.ExitOnError)

	opts := compose.DefaultOptions()
	var (
		input    string
		output   string
		colorStr string
		modeStr  string
	)

	fs.StringVar(&input, "i", "", "Input image or video path")
	fs.StringVar(&input, "input", "", "Input image or video path")
	fs.StringVar(&output, "o", "", "Output video path (.mp4, .mov or .avi)")
	fs.StringVar(&output, "output", "", "Output video path (.mp4, .mov or .avi)")
	fs.StringVar(&opts.Text, "text", "", "Caption text, split into units at . ! ? ,")
	fs.StringVar(&opts.FontPath, "font", "", "TTF/OTF font path (default: embedded Go font)")
	fs.Float64Var(&opts.FontSize, "font-size", opts.FontSize, "Caption font size in pixels")
	fs.StringVar(&colorStr, "color", "#000000", "Caption fill color: hex or 'random'")
	fs.Float64Var(&opts.Duration, "duration", opts.Duration, "Total clip duration in seconds")
	fs.StringVar(&modeStr, "mode", "", "Transform mode: fit or stretch (prompted if omitted)")
	fs.IntVar(&opts.FPS, "fps", opts.FPS, "Output frame rate")
	fs.StringVar(&opts.Bitrate, "bitrate", opts.Bitrate, "Output video bitrate")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	if input == "" {
		printUsage()
		return fmt.Errorf("input file is required (-i)")
	}
	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}

	fill, err := render.ParseColor(colorStr)
	if err != nil {
		return err
	}
	opts.Fill = fill

	if modeStr == "" {
		modeStr = promptMode()
	}
	mode, err := render.ParseMode(modeStr)
	if err != nil {
		return err
	}
	opts.Mode = mode

	composer, err := compose.New(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Composing: %s -> %s (%s)\n", input, output, mode)
	if err := composer.Run(input, output); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

// promptMode asks interactively when --mode was not given. Unrecognized
// answers fall back to fit.
func promptMode() string {
	fmt.Println("Choose the output method:")
	fmt.Println("1: Fit with letterbox (all images and horizontal videos)")
	fmt.Println("2: Stretch to fill (vertical videos)")
	fmt.Print("Enter 1 or 2: ")

	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.TrimSpace(line) == "2" {
		return "stretch"
	}
	return "fit"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`capclip - Captioned Vertical Clip Generator

USAGE:
    capclip -i <media> -o <output> --text "..." [options]

OPTIONS:
    -i, --input <path>     Input image (.jpg .jpeg .png .bmp .gif) or
                           video (.mp4 .mov .avi .mkv .wmv)
    -o, --output <path>    Output video (.mp4, .mov or .avi)
    --text <string>        Caption text, split into units at . ! ? ,
    --font <path>          TTF/OTF font (default: embedded Go font)
    --font-size <px>       Caption font size (default: 50)
    --color <hex>          Caption fill color or 'random' (default: #000000)
    --duration <sec>       Total clip duration (default: 15; clamped to the
                           source duration for video input)
    --mode <fit|stretch>   Transform mode (prompted interactively if omitted)
    --fps <n>              Output frame rate (default: 24)
    --bitrate <rate>       Output bitrate (default: 5000k)

EXAMPLES:
    capclip -i photo.jpg -o clip.mp4 --text "First part. Second part!" --duration 10
    capclip -i landscape.mp4 -o clip.mp4 --text "One, two, three." --mode fit
    capclip -i vertical.mov -o clip.avi --text "Stretch me." --mode stretch
`)
}
