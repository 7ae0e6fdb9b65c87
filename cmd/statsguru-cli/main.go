package main

import (
	"context"

	"statsguru-export/cmd/statsguru-cli/commands"
	"statsguru-export/lib/serviceutil"
	"statsguru-export/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "statsguru-cli")
	commands.ExecuteContext(serviceutil.SignalContext())
}
