package rabbitmq

// QueueConfig describe una cola y su routing key dentro del exchange
// de notificaciones.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues devuelve las colas que consume la capa de
// presentación.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.solicitudes", RoutingKey: "solicitudes.new"},
	}
}
