package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/PianoMan0/Forte/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: forte-ctl <text to say>")
		os.Exit(2)
	}

	err := ipc.Send("say", strings.Join(os.Args[1:], " "))
	if err != nil {
		fmt.Println("forte not running:", err)
		os.Exit(1)
	}
}
