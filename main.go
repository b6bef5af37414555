package main

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/harrowgate/chip8/cmd"
)

func main() {
	// pixelgl needs access to the main thread, so the whole cobra
	// command tree (and the run command's window creation inside it)
	// executes from within pixelgl.Run.
	pixelgl.Run(cmd.Execute)
}
