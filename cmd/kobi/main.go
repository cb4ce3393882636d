package main

import (
	"fmt"
	"os"

	"kobi/internal/clipboard"
	. "kobi/internal/config"
	"kobi/internal/editor"
	"kobi/internal/highlighter"
	kio "kobi/internal/io"
	. "kobi/internal/logger"
	"kobi/internal/ui"

	"github.com/gdamore/tcell"
	"github.com/gdamore/tcell/encoding"
)

func main() {
	Log.Start()
	defer Log.Stop()

	config := GetConfig()
	filename := "newfile.txt"
	if len(os.Args) > 1 { filename = os.Args[1] }
	Log.Info("starting kobi", filename)

	encoding.Register()
	screen, err := tcell.NewScreen()
	if err != nil { fmt.Fprintf(os.Stderr, "%v\n", err); os.Exit(1) }
	if err := screen.Init(); err != nil { fmt.Fprintf(os.Stderr, "%v\n", err); os.Exit(1) }
	screen.EnableMouse()
	screen.Clear()

	session := editor.New(kio.OSFileSystem{}, &clipboard.System{}, editor.Options{
		Coalesce:     config.UndoCoalesce,
		HistoryLimit: config.HistoryLimit,
		TabWidth:     config.TabWidth,
	})
	app := ui.NewApp(screen, session, config, highlighter.New(config.Theme))

	if err := app.Open(filename); err != nil {
		screen.Fini()
		Log.Error("open", filename, err.Error())
		fmt.Fprintln(os.Stderr, err)
		Log.Stop()
		os.Exit(1)
	}

	app.Run()
	app.Close()
	screen.Fini()
}
