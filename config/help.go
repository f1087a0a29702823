package config

import (
	"fmt"
)

const HelpMessage = `
nexgo - ledger-backed taxi board service

Configuration is read from config.yaml and the environment. The most
important variables:

  LEDGER_NODE_URL         node API endpoint
  LEDGER_SESSION          session the service operates under
  LEDGER_PIN              pin for mutating calls
  HTTP_PORT               listen port (default 3000)
  AUTH_OPERATOR_SECRET    secret exchanged for a bearer token
`

func PrintHelp() {
	fmt.Printf("%s", HelpMessage)
}
