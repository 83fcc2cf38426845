package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListShaders prints every stage file with its kind and include directives.
func ListShaders(ctx *cli.Context) error {
	setupLogging(ctx)

	fsys := shaderSource(ctx)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"File", "Kind", "Lines", "Includes"})

	count := 0
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		lines := strings.Split(string(src), "\n")
		var includes []string
		for _, l := range lines {
			if l = strings.TrimSpace(l); strings.HasPrefix(l, "#include") {
				includes = append(includes, strings.Trim(strings.TrimSpace(strings.TrimPrefix(l, "#include")), `"<>`))
			}
		}
		table.Append([]string{name, stageKind(name), fmt.Sprint(len(lines)), strings.Join(includes, ", ")})
		count++
		return nil
	})
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("shaders: %v", err), 1)
	}
	table.SetFooter([]string{fmt.Sprintf("%d files", count), "", "", ""})
	table.Render()
	return nil
}

func stageKind(name string) string {
	switch path.Ext(name) {
	case ".vert":
		return "vertex"
	case ".frag":
		return "fragment"
	case ".geom":
		return "geometry"
	default:
		return "library"
	}
}
