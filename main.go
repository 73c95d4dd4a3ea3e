// chatfeed is an ordered chat message store with broadcast change
// notification and a terminal feed demo.
package main

import (
	"fmt"
	"os"

	"github.com/linanwx/chatfeed/cmd"
	"github.com/linanwx/chatfeed/config"
	"github.com/linanwx/chatfeed/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if err := logger.Init(cfg.BuildLoggerConfig(), config.Dir()); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	cmd.Execute()
}
