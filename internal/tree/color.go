package tree

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"treels/pkg/types"
)

// Palette selects a display style per entry: by kind for directories,
// symlinks, sockets, FIFOs and executables, and by extension category
// for regular files. An LS_COLORS-style mapping in the environment
// overrides the built-in defaults. When disabled every lookup returns
// the text unchanged.
type Palette struct {
	enabled bool

	dir     lipgloss.Style
	symlink lipgloss.Style
	exec    lipgloss.Style
	socket  lipgloss.Style
	fifo    lipgloss.Style
	byExt   map[string]lipgloss.Style
}

var archiveExts = []string{"tar", "gz", "xz", "bz2", "zip", "7z", "rar", "tgz"}
var imageExts = []string{"jpg", "jpeg", "bmp", "gif", "png", "svg", "webp"}
var audioExts = []string{"mp3", "wav", "flac", "aac", "ogg"}
var videoExts = []string{"mp4", "mov", "avi", "mkv", "wmv", "webm"}

// NewPalette builds a palette for out under the given color mode. Auto
// enables color only when out is an interactive terminal.
func NewPalette(mode types.ColorMode, out io.Writer) *Palette {
	enabled := false
	switch mode {
	case types.ColorAlways:
		enabled = true
	case types.ColorAuto:
		if f, ok := out.(*os.File); ok {
			enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	p := &Palette{enabled: enabled}
	if !enabled {
		return p
	}

	// A dedicated renderer with a forced profile keeps styling
	// independent of whatever terminal the process happens to own.
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(termenv.ANSI)

	p.dir = r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	p.symlink = r.NewStyle().Foreground(lipgloss.Color("6"))
	p.exec = r.NewStyle().Foreground(lipgloss.Color("2"))
	p.socket = r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	p.fifo = r.NewStyle().Foreground(lipgloss.Color("3"))

	p.byExt = make(map[string]lipgloss.Style)
	fill := func(exts []string, s lipgloss.Style) {
		for _, ext := range exts {
			p.byExt[ext] = s
		}
	}
	fill(archiveExts, r.NewStyle().Foreground(lipgloss.Color("1")))
	fill(imageExts, r.NewStyle().Foreground(lipgloss.Color("3")))
	fill(audioExts, r.NewStyle().Foreground(lipgloss.Color("6")))
	fill(videoExts, r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true))

	p.applyLSColors(r, os.Getenv("LS_COLORS"))
	return p
}

// applyLSColors overrides built-in styles from an LS_COLORS value. The
// supported subset is the kind keys di, ln, ex, so, pi and *.ext
// entries, with bold plus standard or bright foreground SGR codes.
func (p *Palette) applyLSColors(r *lipgloss.Renderer, env string) {
	for _, item := range strings.Split(env, ":") {
		key, codes, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		style, ok := styleFromSGR(r, codes)
		if !ok {
			continue
		}
		switch {
		case key == "di":
			p.dir = style
		case key == "ln":
			p.symlink = style
		case key == "ex":
			p.exec = style
		case key == "so":
			p.socket = style
		case key == "pi":
			p.fifo = style
		case strings.HasPrefix(key, "*."):
			p.byExt[strings.ToLower(key[2:])] = style
		}
	}
}

func styleFromSGR(r *lipgloss.Renderer, codes string) (lipgloss.Style, bool) {
	style := r.NewStyle()
	any := false
	for _, code := range strings.Split(codes, ";") {
		n, err := strconv.Atoi(code)
		if err != nil {
			return style, false
		}
		switch {
		case n == 1:
			style = style.Bold(true)
			any = true
		case n >= 30 && n <= 37:
			style = style.Foreground(lipgloss.Color(strconv.Itoa(n - 30)))
			any = true
		case n >= 90 && n <= 97:
			style = style.Foreground(lipgloss.Color(strconv.Itoa(n - 90 + 8)))
			any = true
		}
	}
	return style, any
}

// Colorize styles text for e, or returns it unchanged when color is off.
func (p *Palette) Colorize(e types.Entry, text string) string {
	if !p.enabled {
		return text
	}
	switch {
	case e.Kind == types.Dir:
		return p.dir.Render(text)
	case e.Kind == types.Symlink:
		return p.symlink.Render(text)
	case e.Socket():
		return p.socket.Render(text)
	case e.FIFO():
		return p.fifo.Render(text)
	case e.Executable():
		return p.exec.Render(text)
	}
	if s, ok := p.byExt[e.Ext()]; ok {
		return s.Render(text)
	}
	return text
}
