package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"

	ActionLedgerCallFailed      = "ledger_call_failed"
	ActionExternalServiceFailed = "external_service_failed"
	ActionDatabaseQueryFailed   = "database_query_failed"
)
