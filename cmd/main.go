package main

import (
	"github.com/comandalivre/opsdesk/internal/app"
	"github.com/comandalivre/opsdesk/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
