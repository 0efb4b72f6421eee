package repository

const (
	TopicNotifications = "gamebank.notifications"
	TopicSnapshots     = "gamebank.snapshots"
	TopicTransactions  = "gamebank.transactions"
)

type MessageBus interface {
	Publish(topic string, data []byte) error
}
