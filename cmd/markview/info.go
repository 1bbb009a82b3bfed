package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/example/markview/internal/imageload"
)

type infoCmd struct {
	file string
	out  io.Writer
	*root
	fs *flag.FlagSet
}

func (i *infoCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func (i *infoCmd) Program() string {
	return i.root.subcommand("info")
}

func parseInfoCmd(args []string, r *root) (*infoCmd, error) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	c := &infoCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "image file to describe")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && fs.NArg() == 1 {
		c.file = fs.Arg(0)
	}
	if c.file == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (i *infoCmd) Run() error {
	info, err := imageload.Inspect(i.file)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	tw := tabwriter.NewWriter(i.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", info.Path)
	fmt.Fprintf(tw, "Format:\t%s\n", info.Format)
	fmt.Fprintf(tw, "Dimensions:\t%dx%d\n", info.Width, info.Height)
	fmt.Fprintf(tw, "Size:\t%d bytes\n", info.Size)
	fmt.Fprintf(tw, "Modified:\t%s\n", info.ModTime.Format(time.RFC3339))
	for _, k := range info.EXIFKeys() {
		fmt.Fprintf(tw, "%s:\t%s\n", k, info.EXIF[k])
	}
	return tw.Flush()
}
