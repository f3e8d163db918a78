package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"treels/internal/config"
	"treels/internal/errors"
	"treels/internal/log"
	"treels/internal/tree"
	"treels/pkg/types"
)

// flagValues collects the raw flag state before it is folded into the
// immutable config.Config the core consumes.
type flagValues struct {
	all         bool
	level       int
	dirsOnly    bool
	fullPath    bool
	noIndent    bool
	pattern     string
	exclude     string
	size        bool
	human       bool
	protections bool
	owner       bool
	group       bool
	modDate     bool
	classify    bool
	sortTime    bool
	sortVersion bool
	reverse     bool
	dirsFirst   bool
	fileLimit   int
	followLinks bool
	colorOn     bool
	colorOff    bool
	ascii       bool
	noReport    bool
	output      string
	fromFile    string
	configFile  string
	verbose     bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	fv := &flagValues{}

	rootCmd := &cobra.Command{
		Use:     "treels [flags] [path...]",
		Short:   "List contents of directories in a tree-like format",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		Long: `Treels renders a directory hierarchy as an indented tree, one line
per entry, followed by a count of directories and files. Roots may be
real filesystem paths or, with --fromfile, a flat path listing read
from a file or standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetVerbose(fv.verbose)
			return run(fv, args)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&fv.all, "all", "a", false, "include hidden files")
	flags.IntVarP(&fv.level, "level", "L", 0, "descend only this many directory levels")
	flags.BoolVarP(&fv.dirsOnly, "directories", "d", false, "list directories only")
	flags.BoolVarP(&fv.fullPath, "full-path", "f", false, "print the full path prefix for each entry")
	flags.BoolVarP(&fv.noIndent, "no-indent", "i", false, "turn off indentation lines")
	flags.StringVarP(&fv.pattern, "pattern", "P", "", "list only entries matching the wildcard pattern")
	flags.StringVarP(&fv.exclude, "exclude", "I", "", "do not list entries matching the wildcard pattern")
	flags.BoolVarP(&fv.size, "size", "s", false, "print the size of each entry in bytes")
	flags.BoolVarP(&fv.human, "human-readable", "H", false, "print sizes in a human readable format")
	flags.BoolVarP(&fv.protections, "protections", "p", false, "print the permission string for each entry")
	flags.BoolVarP(&fv.owner, "owner", "u", false, "print the owner of each entry")
	flags.BoolVarP(&fv.group, "group", "g", false, "print the group of each entry")
	flags.BoolVarP(&fv.modDate, "mod-date", "D", false, "print the date of last modification")
	flags.BoolVarP(&fv.classify, "classify", "F", false, "append indicator (one of /*=|) to entries")
	flags.BoolVarP(&fv.sortTime, "sort-time", "t", false, "sort by last modification time instead of name")
	flags.BoolVarP(&fv.sortVersion, "sort-version", "v", false, "sort naturally, treating digit runs as numbers")
	flags.BoolVarP(&fv.reverse, "reverse", "r", false, "reverse the sort order")
	flags.BoolVar(&fv.dirsFirst, "dirsfirst", false, "list directories before files")
	flags.IntVar(&fv.fileLimit, "filelimit", 0, "do not descend directories with more than # entries")
	flags.BoolVarP(&fv.followLinks, "follow-links", "l", false, "follow symbolic links to directories")
	flags.BoolVarP(&fv.colorOn, "color", "C", false, "turn colorization on always")
	flags.BoolVarP(&fv.colorOff, "no-color", "n", false, "turn colorization off always (wins over --color)")
	flags.BoolVarP(&fv.ascii, "ascii", "A", false, "use plain ASCII characters for indentation lines")
	flags.BoolVar(&fv.noReport, "noreport", false, "omit the directory and file report at the end")
	flags.StringVarP(&fv.output, "output", "o", "", "send output to a file instead of standard output")
	flags.StringVar(&fv.fromFile, "fromfile", "", "read a path listing from a file, or - for stdin")
	flags.Lookup("fromfile").NoOptDefVal = "-"
	flags.StringVar(&fv.configFile, "config", "", "defaults file (default is $HOME/.config/treels/config.yaml)")
	flags.BoolVar(&fv.verbose, "verbose", false, "enable debug logging")

	return rootCmd
}

// run folds flags over file defaults into a Config, chooses the source
// and the sink, and hands everything to the tree core.
func run(fv *flagValues, args []string) error {
	cfg, err := buildConfig(fv)
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	src, err := buildSource(fv)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return errors.ConfigError("cannot open output file", err)
		}
		defer f.Close()
		out = f
	}

	if fv.fromFile != "" {
		// A listing has exactly one implied root.
		roots = []string{"."}
	}

	return tree.Run(cfg, src, out, roots)
}

func buildConfig(fv *flagValues) (*config.Config, error) {
	path := fv.configFile
	if path == "" {
		path = config.DefaultsPath()
	}
	defaults, err := config.LoadDefaults(path)
	if err != nil {
		return nil, err
	}

	cfg := config.New()
	cfg.MaxDepth = fv.level
	cfg.FollowLinks = fv.followLinks
	cfg.DirsOnly = fv.dirsOnly
	cfg.ShowHidden = fv.all || defaults.ShowHidden
	cfg.EntryLimit = fv.fileLimit
	cfg.IncludePattern = fv.pattern
	cfg.ExcludePattern = fv.exclude
	cfg.Reverse = fv.reverse
	cfg.DirsFirst = fv.dirsFirst || defaults.DirsFirst
	cfg.FullPath = fv.fullPath
	cfg.NoIndent = fv.noIndent
	cfg.ASCII = fv.ascii || defaults.ASCII
	cfg.Permissions = fv.protections
	cfg.Owner = fv.owner
	cfg.Group = fv.group
	cfg.ModDate = fv.modDate
	cfg.Classify = fv.classify
	cfg.NoSummary = fv.noReport
	cfg.OutputPath = fv.output
	cfg.ListingPath = fv.fromFile

	switch {
	case fv.sortTime && fv.sortVersion:
		return nil, errors.ConfigErrorf("--sort-time and --sort-version are mutually exclusive")
	case fv.sortTime:
		cfg.SortKey = types.SortTime
	case fv.sortVersion:
		cfg.SortKey = types.SortVersion
	}

	switch {
	case fv.colorOff:
		cfg.ColorMode = types.ColorNever
	case fv.colorOn:
		cfg.ColorMode = types.ColorAlways
	default:
		mode, err := types.ParseColorMode(defaults.Color)
		if err != nil {
			return nil, errors.ConfigError("invalid defaults file", err)
		}
		cfg.ColorMode = mode
	}

	switch {
	case fv.human, fv.size && defaults.HumanSize:
		cfg.SizeMode = types.SizeHuman
	case fv.size:
		cfg.SizeMode = types.SizeBytes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSource(fv *flagValues) (tree.Source, error) {
	if fv.fromFile == "" {
		return tree.NewFilesystemSource(), nil
	}

	if fv.fromFile == "-" {
		return tree.NewListingSource(os.Stdin)
	}

	f, err := os.Open(fv.fromFile)
	if err != nil {
		return nil, errors.RootError(fv.fromFile, err)
	}
	defer f.Close()
	return tree.NewListingSource(f)
}
