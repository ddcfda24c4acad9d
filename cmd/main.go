package main

import (
	"flag"

	"github.com/staticbackendhq/imageeditor"
	"github.com/staticbackendhq/imageeditor/config"
)

func main() {
	c := config.LoadConfig()

	flag.StringVar(&c.Port, "port", c.Port, "HTTP port to listen on")
	flag.StringVar(&c.AppRoot, "root", c.AppRoot, "directory holding uploads/ and static/")
	flag.Parse()

	imageeditor.Start(c)
}
